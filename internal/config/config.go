// Package config loads environment configuration, with .env support for
// local development.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Canvas
	CanvasURL      string
	CanvasCourseID string
	// CanvasToken overrides the keychain when set. Mostly for CI.
	CanvasToken string

	// SFTP backup target, optional
	SFTPHost                  string
	SFTPPort                  int
	SFTPUser                  string
	SFTPPass                  string
	SFTPDir                   string
	SFTPInsecureIgnoreHostKey bool
}

// Load reads the environment, after merging in a .env file if one is
// present in the working directory.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		CanvasURL:      strings.TrimRight(os.Getenv("CANVAS_URL"), "/"),
		CanvasCourseID: os.Getenv("CANVAS_COURSE_ID"),
		CanvasToken:    os.Getenv("CANVAS_TOKEN"),

		SFTPHost:                  os.Getenv("SFTP_HOST"),
		SFTPPort:                  getenvInt("SFTP_PORT", 22),
		SFTPUser:                  os.Getenv("SFTP_USER"),
		SFTPPass:                  os.Getenv("SFTP_PASS"),
		SFTPDir:                   getenv("SFTP_DIR", "/backups"),
		SFTPInsecureIgnoreHostKey: getenvBool("SFTP_INSECURE_IGNORE_HOSTKEY", true),
	}
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvBool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
