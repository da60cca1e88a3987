package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"rag-debugger-be/internal/bootstrap"
	"rag-debugger-be/internal/config"
	"rag-debugger-be/internal/dto"
	"rag-debugger-be/internal/repository/implementation"
	"rag-debugger-be/internal/server"
	"rag-debugger-be/internal/service"
	"rag-debugger-be/pkg/cost"
	"rag-debugger-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const usage = `ragdebug - local observability for RAG pipelines

Usage:
  ragdebug init                             Create the local database
  ragdebug serve                            Start the HTTP server and web UI
  ragdebug sessions [-limit N]              List recent sessions
  ragdebug trace [session-id|last] [-json]  Show the full trace of a session
  ragdebug snapshots [-limit N]             List saved snapshots
  ragdebug snapshot -session ID [-tags a,b] Save a session as a snapshot
  ragdebug snapshot-delete ID               Delete a snapshot
  ragdebug compare ID1 ID2                  Compare two snapshots
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	if cmd == "serve" {
		runServe()
		return
	}

	cfg := config.Load()
	db, err := database.NewGormDB(cfg.Database.Path)
	if err != nil {
		fail("open database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		fail("migrate database: %v", err)
	}

	switch cmd {
	case "init":
		color.Green("Initialized database at %s", cfg.Database.Path)
	case "sessions":
		runSessions(db, args)
	case "trace":
		runTrace(db, args)
	case "snapshots":
		runSnapshots(db, args)
	case "snapshot":
		runSnapshot(db, args)
	case "snapshot-delete":
		runSnapshotDelete(db, args)
	case "compare":
		runCompare(db, args)
	default:
		fmt.Print(usage)
		os.Exit(1)
	}
}

func fail(format string, args ...interface{}) {
	color.Red(format, args...)
	os.Exit(1)
}

func runServe() {
	cfg := config.Load()
	db, err := database.NewGormDB(cfg.Database.Path)
	if err != nil {
		fail("open database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		fail("migrate database: %v", err)
	}

	container := bootstrap.NewContainer(db, cfg)
	srv := server.New(cfg, container)
	if err := srv.Run(); err != nil {
		fail("server: %v", err)
	}
}

func newSessionService(db *gorm.DB) service.ISessionService {
	return service.NewSessionService(
		implementation.NewSessionRepository(db),
		implementation.NewEventRepository(db),
		service.NoopFeedPublisher{},
	)
}

func newSnapshotService(db *gorm.DB) service.ISnapshotService {
	return service.NewSnapshotService(
		implementation.NewSnapshotRepository(db),
		implementation.NewSessionRepository(db),
		implementation.NewEventRepository(db),
		service.NoopFeedPublisher{},
	)
}

func runSessions(db *gorm.DB, args []string) {
	fs := flag.NewFlagSet("sessions", flag.ExitOnError)
	limit := fs.Int("limit", 10, "number of sessions to show")
	offset := fs.Int("offset", 0, "number of sessions to skip")
	fs.Parse(args)

	sessions, err := newSessionService(db).List(context.Background(), *limit, *offset)
	if err != nil {
		fail("list sessions: %v", err)
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions recorded yet.")
		return
	}

	bold := color.New(color.Bold)
	for _, s := range sessions {
		bold.Printf("%s", s.Id)
		fmt.Printf("  %s\n", s.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("  query: %s\n", truncate(s.Query, 80))
		if s.TotalCost != nil {
			fmt.Printf("  cost: %s", cost.FormatCost(*s.TotalCost))
			if s.TotalDurationMs != nil {
				fmt.Printf("  duration: %dms", *s.TotalDurationMs)
			}
			fmt.Println()
		} else {
			color.Yellow("  (incomplete)")
		}
	}
}

func runTrace(db *gorm.DB, args []string) {
	fs := flag.NewFlagSet("trace", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "print the raw trace as JSON")

	target := "last"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		target = args[0]
		args = args[1:]
	}
	fs.Parse(args)

	svc := newSessionService(db)
	ctx := context.Background()

	var id uuid.UUID
	if target == "last" {
		latest, err := svc.GetLatestId(ctx)
		if err != nil {
			fail("%v", err)
		}
		id = latest.SessionId
	} else {
		parsed, err := uuid.Parse(target)
		if err != nil {
			fail("invalid session id %q", target)
		}
		id = parsed
	}

	detail, err := svc.Show(ctx, id)
	if err != nil {
		fail("%v", err)
	}

	if *asJSON {
		out, _ := json.MarshalIndent(detail, "", "  ")
		fmt.Println(string(out))
		return
	}

	renderTrace(detail)
}

func renderTrace(detail *dto.SessionDetailResponse) {
	bold := color.New(color.Bold)
	section := color.New(color.FgCyan, color.Bold)

	bold.Printf("Session %s\n", detail.Session.Id)
	fmt.Printf("Query: %s\n", detail.Session.Query)
	fmt.Printf("Started: %s\n", detail.Session.CreatedAt.Local().Format("2006-01-02 15:04:05"))

	if r := detail.Retrieval; r != nil {
		section.Println("\nRetrieval")
		fmt.Printf("  method: %s  duration: %dms  chunks: %d\n", r.RetrievalMethod, r.DurationMs, len(r.Chunks))
		for i, chunk := range r.Chunks {
			fmt.Printf("  [%d] score=%.3f %s\n", i+1, chunk.Metadata.Score, truncate(chunk.Text, 70))
		}
	}

	if p := detail.Prompt; p != nil {
		section.Println("\nPrompt")
		fmt.Printf("  tokens: %d\n", p.TokenCount)
		if p.TemplateName != nil {
			fmt.Printf("  template: %s\n", *p.TemplateName)
		}
		fmt.Printf("  %s\n", truncate(p.Prompt, 200))
	}

	if g := detail.Generation; g != nil {
		section.Println("\nGeneration")
		fmt.Printf("  model: %s  in/out tokens: %d/%d  duration: %dms\n", g.Model, g.InputTokens, g.OutputTokens, g.DurationMs)
		fmt.Printf("  %s\n", truncate(g.Response, 200))
	}

	b := detail.CostBreakdown
	section.Println("\nCosts")
	fmt.Printf("  embedding: %s\n", cost.FormatCost(b.EmbeddingCost))
	fmt.Printf("  input:     %s\n", cost.FormatCost(b.InputCost))
	fmt.Printf("  output:    %s\n", cost.FormatCost(b.OutputCost))
	bold.Printf("  total:     %s\n", cost.FormatCost(b.TotalCost))
}

func runSnapshots(db *gorm.DB, args []string) {
	fs := flag.NewFlagSet("snapshots", flag.ExitOnError)
	limit := fs.Int("limit", 10, "number of snapshots to show")
	fs.Parse(args)

	snapshots, err := newSnapshotService(db).List(context.Background(), *limit)
	if err != nil {
		fail("list snapshots: %v", err)
	}

	if len(snapshots) == 0 {
		fmt.Println("No snapshots saved yet.")
		return
	}

	bold := color.New(color.Bold)
	for _, s := range snapshots {
		bold.Printf("%s", s.Id)
		fmt.Printf("  %s\n", s.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("  query: %s\n", truncate(s.Query, 80))
		fmt.Printf("  cost: %s  chunks: %d", cost.FormatCost(s.Cost), len(s.Chunks))
		if len(s.Tags) > 0 {
			fmt.Printf("  tags: %s", strings.Join(s.Tags, ","))
		}
		fmt.Println()
	}
}

func runSnapshot(db *gorm.DB, args []string) {
	fs := flag.NewFlagSet("snapshot", flag.ExitOnError)
	sessionArg := fs.String("session", "", "session id to snapshot")
	tagsArg := fs.String("tags", "", "comma separated tags")
	fs.Parse(args)

	if *sessionArg == "" {
		fail("snapshot requires -session")
	}
	sessionId, err := uuid.Parse(*sessionArg)
	if err != nil {
		fail("invalid session id %q", *sessionArg)
	}

	var tags []string
	if *tagsArg != "" {
		tags = strings.Split(*tagsArg, ",")
	}

	snapshot, err := newSnapshotService(db).Create(context.Background(), &dto.CreateSnapshotRequest{
		SessionId: sessionId,
		Tags:      tags,
	})
	if err != nil {
		fail("%v", err)
	}

	color.Green("Saved snapshot %s", snapshot.Id)
}

func runSnapshotDelete(db *gorm.DB, args []string) {
	if len(args) < 1 {
		fail("snapshot-delete requires a snapshot id")
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		fail("invalid snapshot id %q", args[0])
	}

	if err := newSnapshotService(db).Delete(context.Background(), id); err != nil {
		fail("%v", err)
	}
	color.Green("Deleted snapshot %s", id)
}

func runCompare(db *gorm.DB, args []string) {
	if len(args) < 2 {
		fail("compare requires two snapshot ids")
	}
	id1, err := uuid.Parse(args[0])
	if err != nil {
		fail("invalid snapshot id %q", args[0])
	}
	id2, err := uuid.Parse(args[1])
	if err != nil {
		fail("invalid snapshot id %q", args[1])
	}

	svc := service.NewCompareService(implementation.NewSnapshotRepository(db))
	result, err := svc.Compare(context.Background(), id1, id2)
	if err != nil {
		fail("%v", err)
	}

	renderComparison(result)
}

func renderComparison(result *dto.ComparisonResponse) {
	bold := color.New(color.Bold)
	section := color.New(color.FgCyan, color.Bold)

	bold.Printf("Comparing %s -> %s\n", result.Snapshot1Id, result.Snapshot2Id)
	if !result.QuerySame {
		color.Yellow("Queries differ between snapshots.")
	}

	d := result.RetrievalDiff
	section.Println("\nRetrieval")
	fmt.Printf("  similarity: %.0f%%  unchanged: %d\n", d.SimilarityScore*100, len(d.Unchanged))
	for _, text := range d.Added {
		color.Green("  + %s", truncate(text, 70))
	}
	for _, text := range d.Removed {
		color.Red("  - %s", truncate(text, 70))
	}

	a := result.AnswerDiff
	section.Println("\nAnswer")
	fmt.Printf("  similarity: %.0f%%  length: %d -> %d\n", a.SimilarityScore*100, a.LengthOld, a.LengthNew)
	for _, line := range a.DiffLines {
		switch {
		case strings.HasPrefix(line, "+"):
			color.Green("  %s", truncate(line, 78))
		case strings.HasPrefix(line, "-"):
			color.Red("  %s", truncate(line, 78))
		default:
			fmt.Printf("  %s\n", truncate(line, 78))
		}
	}

	c := result.CostDiff
	section.Println("\nCost")
	fmt.Printf("  %s -> %s", cost.FormatCost(c.OldCost), cost.FormatCost(c.NewCost))
	if c.Delta > 0 {
		color.Red("  (+%s, %+.1f%%)", cost.FormatCost(c.Delta), c.PercentChange)
	} else if c.Delta < 0 {
		color.Green("  (%s, %+.1f%%)", cost.FormatCost(c.Delta), c.PercentChange)
	} else {
		fmt.Println("  (unchanged)")
	}
}

func truncate(text string, max int) string {
	text = strings.ReplaceAll(text, "\n", " ")
	if len(text) <= max {
		return text
	}
	return text[:max-3] + "..."
}
