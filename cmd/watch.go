package cmd

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/assetctl/internal/core/domain"
	"github.com/kamal-hamza/assetctl/internal/core/services"
	"github.com/kamal-hamza/assetctl/pkg/ui"
)

var (
	watchTarget   string
	watchCompress bool
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-upload local videos when they change",
	Long: `Watch the local files referenced by the catalog and upload an entry
again whenever its file is written or replaced.

Changes are debounced and uploaded one at a time through the same paced
runner as 'assetctl upload'. Press Ctrl+C to stop.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchTarget, "to", "t", string(domain.StoreCDN), "Destination store (cdn or blob)")
	watchCmd.Flags().BoolVarP(&watchCompress, "compress", "c", false, "Re-encode files above the size threshold before uploading")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 2*time.Second, "Quiet period before uploading a changed file")
}

func runWatch(cmd *cobra.Command, args []string) error {
	target, err := domain.ParseStore(watchTarget)
	if err != nil {
		return err
	}

	// Map absolute file paths to the entries that upload them
	byPath := map[string][]domain.AssetEntry{}
	dirs := map[string]bool{}
	for _, e := range appCatalog.ListAll() {
		if e.LocalPath == "" {
			continue
		}
		p := appWorkspace.MediaPath(e.LocalPath)
		byPath[p] = append(byPath[p], e)
		dirs[filepath.Dir(p)] = true
	}
	if len(byPath) == 0 {
		fmt.Println(ui.FormatWarning("No catalog entries have a local file"))
		return nil
	}

	deps := services.TransferDeps{}
	switch target {
	case domain.StoreCDN:
		deps.Media = newMediaStore()
	case domain.StoreBlob:
		deps.Blob = newBlobStore()
	}
	if watchCompress {
		deps.Encoder = newEncoder(true)
	}
	executor := newTransferService(deps)
	req := services.TransferRequest{Mode: domain.ModeUpload, Target: target, Compress: watchCompress}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			appLog.WithError(err).WithField("dir", dir).Warn("Cannot watch directory")
		}
	}

	ctx, cancel := getContext()
	defer cancel()

	fmt.Println(ui.FormatRocket("Watching local media..."))
	fmt.Println(ui.FormatMuted(fmt.Sprintf("%d files in %d directories, uploading to %s", len(byPath), len(dirs), target)))
	fmt.Println(ui.FormatMuted("Press Ctrl+C to stop"))
	fmt.Println()

	var (
		mu      sync.Mutex
		pending = map[string]bool{}
		timer   *time.Timer
		uploads = make(chan []domain.AssetEntry, 1)
	)

	// flush hands the pending files to the upload loop
	flush := func() {
		mu.Lock()
		paths := make([]string, 0, len(pending))
		for p := range pending {
			paths = append(paths, p)
		}
		pending = map[string]bool{}
		mu.Unlock()

		sort.Strings(paths)
		var entries []domain.AssetEntry
		for _, p := range paths {
			entries = append(entries, byPath[p]...)
		}
		if len(entries) == 0 {
			return
		}
		select {
		case uploads <- entries:
		case <-ctx.Done():
		}
	}

	// One batch at a time keeps a single upload in flight
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case entries := <-uploads:
				fmt.Println(ui.FormatInfo(fmt.Sprintf("%d changed, uploading...", len(entries))))
				if _, err := runBatch(ctx, executor, req, entries); err != nil {
					fmt.Println(ui.FormatError("Upload failed: " + err.Error()))
				}
				fmt.Println()
			}
		}
	}()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if _, tracked := byPath[event.Name]; !tracked {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}

			mu.Lock()
			pending[event.Name] = true
			mu.Unlock()

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, flush)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			appLog.WithError(err).Warn("Watcher error")

		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			fmt.Println()
			fmt.Println(ui.FormatMuted("Watcher stopped"))
			return nil
		}
	}
}
