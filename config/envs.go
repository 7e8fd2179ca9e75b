package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration values.
type Config struct {
	HostIP   string // Address the servers listen on
	GrpcPort int    // Port for the GRPC server
	WSPort   int    // Port for the websocket and maze HTTP server

	UdpPort                int // Port for the UDP socket
	UDPBufferSize          int // Size of the buffer for incoming UDP packets (in bytes)
	UDPHeartbeatExpiration int // Expiration time for UDP heartbeat (in milliseconds)

	MazeSourceURL string // Remote maze source; empty uses the in-process generator
	PathSourceURL string // Remote path source; empty uses the in-process solver
	Locale        string // Language of notices

	TickIntervalMs int // Length of one timer second (in milliseconds)
	ReplayStepMs   int // Pause between replay steps (in milliseconds)
}

// Envs holds the application's configuration loaded from environment variables.
var Envs = initConfig()

// initConfig reads the configuration, loading a .env file first when one exists.
func initConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("[APP] [INFO] .env file not found or could not be loaded: %v", err)
	}

	return Config{
		HostIP:   mustGetEnv("HOST_IP"),
		GrpcPort: mustGetEnvAsInt("GRPC_PORT"),
		WSPort:   getEnvAsInt("WS_PORT", 8081),

		UdpPort:                mustGetEnvAsInt("UDP_PORT"),
		UDPBufferSize:          mustGetEnvAsInt("UDP_BUFFER_SIZE"),
		UDPHeartbeatExpiration: mustGetEnvAsInt("UDP_HEARTBEAT_EXPIRATION"),

		MazeSourceURL: getEnv("MAZE_SOURCE_URL", ""),
		PathSourceURL: getEnv("PATH_SOURCE_URL", ""),
		Locale:        getEnv("LOCALE", "fr"),

		TickIntervalMs: getEnvAsInt("TICK_INTERVAL_MS", 1000),
		ReplayStepMs:   getEnvAsInt("REPLAY_STEP_MS", 300),
	}
}

// mustGetEnv returns the variable or stops the process when it is unset.
func mustGetEnv(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		log.Fatalf("%s[APP]%s %s[FATAL]%s Environment variable %s is not set", ColorGreen, ColorReset, ColorRed, ColorReset, key)
	}
	return value
}

func mustGetEnvAsInt(key string) int {
	return atoi(key, mustGetEnv(key))
}

// getEnv returns the variable, or fallback when it is unset.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		return atoi(key, value)
	}
	return fallback
}

func atoi(key, raw string) int {
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("%s[APP]%s %s[FATAL]%s %s=%q is not an integer: %v", ColorGreen, ColorReset, ColorRed, ColorReset, key, raw, err)
	}
	return value
}
