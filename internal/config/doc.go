// Package config loads tetanux's line-oriented configuration file.
//
// Each line holds one directive: a key, a run of spaces or tabs, and a
// value. Lines starting with '#' are comments. Unknown keys are ignored and
// unparsable values fall back to their defaults, so a config file can only
// fail to load if it cannot be read.
package config
