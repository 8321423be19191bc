package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Serial   SerialConfig
	Camera   CameraConfig
	Faces    FacesConfig
	Database DatabaseConfig
	Evidence EvidenceConfig
	Web      WebConfig
	Device   string // device tag attached to every log entry
}

type SerialConfig struct {
	Port string // serial device path (e.g. /dev/ttyUSB0 or COM3); empty = simulated mode
	Baud int    // defaults to 9600
}

type CameraConfig struct {
	URL           string        // MJPEG stream URL (e.g. http://cam.local/stream)
	SimulateDir   string        // directory of still images used when URL is empty
	WarmupFrames  int           // frames discarded after open (default 3)
	PreviewTime   time.Duration // live preview before the capture (default 2s)
	ResultDisplay time.Duration // pause after a decision before re-listening (default 3s)
}

type FacesConfig struct {
	ServiceURL string  // face detection service URL (default http://localhost:8000)
	KnownDir   string  // directory of labeled reference images (default known_faces)
	Tolerance  float64 // max descriptor distance for a match (default 0.5)
}

type DatabaseConfig struct {
	URL          string // postgres:// URL or mysql DSN; empty = in-memory sink
	MaxOpenConns int    // maximum open connections (default 10)
	MaxIdleConns int    // maximum idle connections (default 2)
}

type EvidenceConfig struct {
	LocalDir    string // local evidence directory (default intruders)
	BaseURL     string // public base URL for locally stored evidence
	S3Endpoint  string // optional S3-compatible endpoint; empty disables remote upload
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3UseSSL    bool
}

type WebConfig struct {
	Host string // defaults to 0.0.0.0
	Port int    // defaults to 8080
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable and parses it as a positive float.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return f
	}
	return defaultVal
}

// envStr reads an environment variable with a default.
func envStr(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

func Load() *Config {
	return &Config{
		Serial: SerialConfig{
			Port: os.Getenv("SERIAL_PORT"),
			Baud: envInt("SERIAL_BAUD", 9600),
		},
		Camera: CameraConfig{
			URL:           os.Getenv("CAMERA_URL"),
			SimulateDir:   os.Getenv("CAMERA_SIMULATE_DIR"),
			WarmupFrames:  envInt("CAMERA_WARMUP_FRAMES", 3),
			PreviewTime:   time.Duration(envInt("CAMERA_PREVIEW_SECONDS", 2)) * time.Second,
			ResultDisplay: time.Duration(envInt("RESULT_DISPLAY_SECONDS", 3)) * time.Second,
		},
		Faces: FacesConfig{
			ServiceURL: envStr("FACE_SERVICE_URL", "http://localhost:8000"),
			KnownDir:   envStr("KNOWN_FACES_DIR", "known_faces"),
			Tolerance:  envFloat("FACE_TOLERANCE", 0.5),
		},
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 2),
		},
		Evidence: EvidenceConfig{
			LocalDir:    envStr("EVIDENCE_DIR", "intruders"),
			BaseURL:     os.Getenv("EVIDENCE_BASE_URL"),
			S3Endpoint:  os.Getenv("S3_ENDPOINT"),
			S3Bucket:    envStr("S3_BUCKET", "intruder-detection-image"),
			S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
			S3SecretKey: os.Getenv("S3_SECRET_KEY"),
			S3UseSSL:    os.Getenv("S3_USE_SSL") == "true",
		},
		Web: WebConfig{
			Host: envStr("WEB_HOST", "0.0.0.0"),
			Port: envInt("WEB_PORT", 8080),
		},
		Device: envStr("DEVICE_TAG", "Laptop_Gateway"),
	}
}
