// Package config loads Vapor's startup settings.
//
// # Overview
//
// Vapor is a client for a remote Vapor API. The only things it needs to know
// before drawing a frame are where that API lives, how patient to be with it,
// and where to keep its own files: the log, the saved session and the UI
// preferences. Config carries exactly those settings and nothing else.
//
// # Sources
//
// Load merges the following, later sources winning:
//
//  1. Built-in defaults
//  2. The TOML file (explicit path, else ~/.config/vapor/config.toml)
//  3. A .env file in the working directory
//  4. VAPOR_* environment variables
//
// The layers are stacked with koanf: a confmap provider for the defaults, a
// file provider with the TOML parser, and an env provider. The .env file is
// read with godotenv before the env provider runs, so its values take part in
// step 4. godotenv never overrides a variable that is already set, which keeps
// the real environment ahead of the file.
//
// A missing config file is not an error. Vapor works against a local backend
// with no configuration at all. A missing .env file is not an error either.
//
// # Configuration Keys
//
// Every key can be set in the TOML file or as an environment variable. The
// variable name is the key upper-cased with the VAPOR_ prefix.
//
//   - api_url (VAPOR_API_URL): base URL of the API, including any path
//     prefix such as /api. Default http://localhost:3000/api. A trailing
//     slash is trimmed.
//   - request_timeout (VAPOR_REQUEST_TIMEOUT): bound on a single HTTP
//     request. Default 60s, must be positive. Hosted backends may be waking
//     from hibernation, so this is generous.
//   - wake_timeout (VAPOR_WAKE_TIMEOUT): how long startup pings the API
//     before opening the UI anyway. Default 90s. Zero skips the wait.
//   - search_debounce (VAPOR_SEARCH_DEBOUNCE): quiet period after the last
//     keystroke before a search fetch is issued. Default 500ms. Zero means
//     the paging default.
//   - home_refresh (VAPOR_HOME_REFRESH): interval between home screen
//     refreshes while the API answers. Default 5m, must be positive.
//   - log_file (VAPOR_LOG_FILE): JSON log written by the logging package and
//     read back by the Logs view. Default ~/.local/share/vapor/vapor.log.
//   - log_level (VAPOR_LOG_LEVEL): debug, info, warn (or warning) or error.
//     Default info. Case does not matter.
//   - session_file (VAPOR_SESSION_FILE): where the bearer token and email are
//     saved after login. Default ~/.config/vapor/session.toml.
//   - prefs_file (VAPOR_PREFS_FILE): theme and list sort preferences.
//     Default ~/.config/vapor/prefs.toml.
//
// Durations use Go syntax ("90s", "5m", "500ms").
//
// # TOML Format
//
//	api_url = "https://vapor.example.com/api"
//	request_timeout = "60s"
//	wake_timeout = "90s"
//	search_debounce = "500ms"
//	home_refresh = "5m"
//	log_file = "~/.local/share/vapor/vapor.log"
//	log_level = "info"
//	session_file = "~/.config/vapor/session.toml"
//	prefs_file = "~/.config/vapor/prefs.toml"
//
// All keys are optional.
//
// # Path Expansion
//
// The config file location and the log_file, session_file and prefs_file
// values are expanded the same way:
//
//   - Absolute paths: used as-is ("/var/log/vapor.log")
//   - Tilde paths: expanded to the home directory ("~/.config/vapor")
//   - Relative paths: made absolute against the working directory
//
// An empty path falls back to its default before expansion. LogDir returns
// the directory that holds the log file.
//
// # Validation
//
// After decoding, the merged Config is normalized and then checked with
// go-playground/validator using the struct tags: api_url must be a URL, the
// timeouts must not be negative, request_timeout and home_refresh must be
// positive, and the three file paths must be set.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g. no home directory)
//   - Config file errors other than os.ErrNotExist
//   - TOML or .env parse errors
//   - Values that do not decode (e.g. "soon" for a duration)
//   - Validation failures
//
// Errors are wrapped with the step that failed ("parse config: ...").
//
// # Usage Example
//
//	cfg, err := config.Load("")
//	if err != nil {
//		return fmt.Errorf("load config: %w", err)
//	}
//	if apiURL != "" {
//		cfg.APIURL = apiURL // --api-url flag
//	}
//	client, err := vapor.NewClient(cfg.APIURL, vapor.Options{Timeout: cfg.RequestTimeout})
//
// The --api-url flag is applied by the caller after Load, so it beats every
// source listed above.
//
// # Testing Considerations
//
// Tests pass an explicit path in a temp directory and use t.Setenv for the
// VAPOR_* variables. dotenvFile is a package variable so tests can point it at
// a file of their own instead of the working directory.
package config
