package cmd

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/phamquocan24/steganography/internal/core/domain"
	"github.com/phamquocan24/steganography/pkg/imageinfo"
	"github.com/phamquocan24/steganography/pkg/ui"
)

var watchCmd = &cobra.Command{
	Use:   "watch <directory>",
	Short: "Auto-classify images dropped into a directory",
	Long: `Watch a directory and classify every image that appears in it.
Writes are debounced so a file still being copied is only analyzed
once it settles. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	debounce := time.Duration(appConfig.WatchDebounceMS) * time.Millisecond
	fmt.Println(ui.FormatScan("Watching " + dir))
	fmt.Println(ui.FormatMuted("Press Ctrl+C to stop."))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// One timer per path so a burst of writes to the same file collapses
	// into a single classification.
	var mu sync.Mutex
	timers := make(map[string]*time.Timer)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !imageinfo.Supported(event.Name) {
				continue
			}
			path := event.Name

			mu.Lock()
			if timer, exists := timers[path]; exists {
				timer.Stop()
			}
			timers[path] = time.AfterFunc(debounce, func() {
				mu.Lock()
				delete(timers, path)
				mu.Unlock()
				classifyWatched(path)
			})
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch: %v", err)

		case <-sigCh:
			fmt.Println()
			fmt.Println(ui.FormatInfo("Stopping watch."))
			return nil
		}
	}
}

func classifyWatched(path string) {
	img, err := imageinfo.Load(path)
	if err != nil {
		log.Printf("watch: skipping %s: %v", path, err)
		return
	}
	if _, err := orchestrator.SetActiveImage(img); err != nil {
		log.Printf("watch: %v", err)
		return
	}

	ch, err := orchestrator.RunModule(getContext(), domain.KindClassification, defaultRunConfig())
	if err != nil {
		log.Printf("watch: %v", err)
		return
	}
	// Settlement details reach the terminal through the notification
	// sink; nothing more to print here.
	<-ch
}
