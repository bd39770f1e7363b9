// Package config defines the settings of the security controller and provides
// helpers to load, validate and save them in YAML format.
//
// The Config type selects the state store backend and its location, the log
// level, the image classifier mode and an optional metrics textfile.
package config
