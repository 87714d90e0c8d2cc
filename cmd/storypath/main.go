// Package main is a terminal harness around the StoryPath client core: it
// lists published projects, tracks progress in one of them, and feeds the
// proximity and QR triggers from a replayed route and stdin.
package main

import (
	"bufio"
	"cmp"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/storypath/storypath/internal/config"
	"github.com/storypath/storypath/internal/gateway"
	"github.com/storypath/storypath/internal/ledger"
	"github.com/storypath/storypath/internal/logger"
	"github.com/storypath/storypath/internal/models"
	"github.com/storypath/storypath/internal/sampler"
	"github.com/storypath/storypath/internal/session"
	"github.com/storypath/storypath/internal/trigger"
)

var (
	version   string
	buildDate string
)

func main() {
	projectID := flag.Int("project", 0, "project to enter; 0 lists published projects")
	route := flag.String("route", "", "simulated walk as lat,lon;lat,lon;...")
	interval := flag.Duration("interval", trigger.DefaultProximityInterval, "proximity check cadence")
	reset := flag.Bool("reset", false, "delete this participant's scans for the project and exit")

	options := config.Parse()

	log, err := logger.New("warn")
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gw := gateway.New(options.APIBaseURL, options.Token, log)

	if *projectID == 0 {
		listProjects(ctx, gw)
		return
	}

	username := options.Username
	if username == "" {
		username = "explorer"
	}
	sess := session.New(username)

	project, err := gw.GetProject(ctx, *projectID)
	if err != nil {
		log.Fatal("cannot load project", zap.Error(err))
	}

	led := ledger.New(gw, sess, project.ID, log)
	if err := led.Refresh(ctx); err != nil {
		log.Fatal("cannot refresh project state", zap.Error(err))
	}

	if *reset {
		if err := led.Reset(ctx); err != nil {
			log.Fatal("reset failed", zap.Error(err))
		}
		fmt.Println("Progress reset.")
		return
	}

	fmt.Printf("%s - %s\n", project.Title, project.Instructions)
	printProgress(led)

	if *route != "" {
		points, err := sampler.ParseRoute(*route)
		if err != nil {
			log.Fatal("bad route", zap.Error(err))
		}
		prox := trigger.NewProximity(led, sampler.NewRoute(points), *interval, log)
		prox.OnNearest = func(loc models.Location, meters float64, within bool) {
			if within {
				fmt.Printf("Nearest: %s - within unlock range\n", loc.Name)
			} else {
				fmt.Printf("Nearest: %s - %.2f m away\n", loc.Name, meters)
			}
		}
		prox.OnUnlock = reportUnlock(led)
		go func() {
			if err := prox.Run(ctx); err != nil {
				fmt.Println("proximity disabled:", err)
			}
		}()
	}

	qr := trigger.NewQR(led, log)
	repl(ctx, led, qr)
}

// listProjects prints every published project.
func listProjects(ctx context.Context, gw *gateway.Client) {
	projects, err := gw.ListPublishedProjects(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot list projects:", err)
		os.Exit(1)
	}
	for _, p := range projects {
		fmt.Printf("%3d  %s\n", p.ID, p.Title)
	}
}

func printProgress(led *ledger.Ledger) {
	earned, totalPoints := led.Score()
	visited, totalLocations := led.Progress()
	fmt.Printf("Points %d/%d - Locations visited %d/%d\n",
		earned, totalPoints, visited, totalLocations)
}

func reportUnlock(led *ledger.Ledger) func(models.Location, ledger.Outcome, error) {
	return func(loc models.Location, outcome ledger.Outcome, err error) {
		switch {
		case err != nil:
			fmt.Printf("Could not unlock %s: %v\n", loc.Name, err)
		case outcome == ledger.Won:
			fmt.Printf("New location unlocked: %s (+%d points)\n", loc.Name, loc.ScorePoints)
			printProgress(led)
		case outcome == ledger.AlreadyUnlocked:
			fmt.Printf("Already unlocked: %s\n", loc.Name)
		}
	}
}

// repl reads QR payloads and commands from stdin until EOF or cancellation.
func repl(ctx context.Context, led *ledger.Ledger, qr *trigger.QR) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("Enter a QR payload (<projectId>-<locationId>), `refresh`, `status`, `version`, or `exit`.")
	for {
		fmt.Print("storypath> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "exit":
			fmt.Println("Bye")
			return
		case line == "status":
			printProgress(led)
		case line == "version":
			fmt.Printf("StoryPath Client\nVersion: %s\nBuild Date: %s\n",
				cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))
		case line == "refresh":
			refreshCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			err := led.Refresh(refreshCtx)
			cancel()
			if err != nil {
				fmt.Println("refresh failed:", err)
				continue
			}
			printProgress(led)
		default:
			loc, outcome, err := qr.Scan(ctx, line)
			if err != nil {
				fmt.Println("scan rejected:", err)
				continue
			}
			reportUnlock(led)(loc, outcome, nil)
		}
	}
}
