// Package app is the composition root for toolcat.
//
// # Overview
//
// Open builds every component explicitly and hands each one its
// dependencies; nothing is a package-level singleton:
//
//	┌──────────────┐
//	│   Open()     │
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()        viper: defaults, file, env, flags
//	       ├─────> logging.New()        zap file logger
//	       ├─────> prefs.Load()         theme, sort, view
//	       ├─────> provider.Open()      file or HTTP catalog
//	       ├─────> state.NewStore()     single source of truth
//	       ├─────> events.NewBus()      intents and service events
//	       ├─────> toolservice.New()    loading, caching, derived views
//	       └─────> Service.Initialize() first load, fallback on failure
//
// Start adds the background work: an fsnotify watcher for file catalogs that
// publishes catalog.changed, and an optional refresh poller that backs off
// exponentially while reloads fail. Run starts the TUI on top; Close tears
// everything down in reverse.
//
// # Intent Handling
//
// Cards publish intents on the bus. The shell turns them into service
// calls:
//
//   - detailsClicked opens the details modal for the tool
//   - compareToggled moves the comparison selection to the requested state
//   - websiteClicked hands http(s) URLs to the platform browser launcher
//
// After every successful reload the current filters and sort are applied
// again so the visible list matches the new catalog.
package app
