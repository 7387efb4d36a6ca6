package config

// SampleConfig returns a fully documented configuration file
func SampleConfig() string {
	return `# Koryaku configuration
version: "1.0"

templates:
  # File path or http(s) URL of the templates file. The first line is a
  # header and is skipped; every other non-blank line is one template.
  source: "templates.csv"
  # Bound on the single fetch attempt
  fetch_timeout: 10s

timing:
  # Analysis animation
  dot_interval: 250ms
  message_interval: 800ms
  analysis_base: 2s
  per_rotation: 10us
  per_big_win: 50ms
  complexity_cap: 1500ms
  analysis_jitter: 500ms
  # Letter-by-letter reveal
  reveal_delay: 20ms
  reveal_jitter: 20ms
  # How long the copy button shows its confirmation
  copy_confirm: 1500ms

inputs:
  symbols: ["1", "2", "3", "4", "5", "6", "7", "8", "9"]
  areas: ["top", "center", "bottom"]

output:
  default_format: "text"   # text, json, markdown
  color_mode: "auto"       # auto, always, never
  theme: "default"         # default, high-contrast, minimal
  verbose: false
  no_emoji: false
  # The interactive screen writes logs here; empty discards them
  log_file: ""

# Fixed seed for the shuffle and jitter; 0 picks a random seed
seed: 0
`
}

// MinimalSampleConfig returns a configuration file with only the essentials
func MinimalSampleConfig() string {
	return `version: "1.0"
templates:
  source: "templates.csv"
output:
  theme: "default"
`
}
