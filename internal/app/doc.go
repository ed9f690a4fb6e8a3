// Package app wires configuration, logging, the API client and the peak
// store into the PathQuest TUI and its command-line subcommands.
//
// # Components
//
//   - app.go: Run (TUI), Search and SetFavorite entry points
//   - loader.go: replaces the working set with search results and computes
//     the retry backoff after failed loads
//   - headless.go: Session, the coordinator wired to an in-memory map for
//     use without a terminal
//
// # Data Flow
//
//	Run()
//	  ├─> config.Load()        config.toml + PATHQUEST_* overrides
//	  ├─> logging.New()        JSON log file
//	  ├─> prefs.Load()         theme, units, sort
//	  ├─> pathquest.NewClient()
//	  ├─> state.Store{}        shared with the Loader
//	  └─> ui.Run()             blocks until quit
//
// The TUI drives loading itself: it calls Loader.Fetch from a command when
// the viewport or search text changes, then Loader.Apply on its event loop
// if that load is still the latest, and schedules a retry after
// Loader.RetryDelay when a load fails. There is no background poller; the
// working set only changes on user action.
//
// # Backoff
//
// Consecutive load failures double the retry delay from 2s up to a 30s cap.
// A successful load resets the count. Failed loads never clear the peaks
// already on screen.
package app
