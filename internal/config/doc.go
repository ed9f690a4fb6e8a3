// Package config loads PathQuest's configuration.
//
// # Resolution
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/pathquest/config.toml
//  3. If the file doesn't exist, start from Default()
//  4. Empty or missing fields keep their defaults
//  5. PATHQUEST_API_URL, PATHQUEST_TOKEN and PATHQUEST_LOG_FILE, when set,
//     replace the corresponding values
//
// # TOML Format
//
//	api_url = "https://api.pathquest.app"
//	token = "..."
//	log_file = "~/.local/state/pathquest/pathquest.log"
//	search_limit = 200
//	default_bbox = [-106.0, 39.5, -105.5, 40.0]  # minLng, minLat, maxLng, maxLat
//
// All fields are optional. Paths get tilde expansion. search_limit is capped
// at 1000.
//
// Missing config files are not an error so the client works without any
// setup. Malformed TOML or an invalid default_bbox is.
package config
