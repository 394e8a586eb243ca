package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the scene setup, read from the environment
type Config struct {
	Gravity            float64
	VelocityIterations int
	PositionIterations int
	Workers            int
	Bodies             int
	Sound              bool
}

func defaultConfig() Config {
	return Config{
		Gravity:            -10.0,
		VelocityIterations: 8,
		PositionIterations: 3,
		Workers:            1,
		Bodies:             12,
		Sound:              true,
	}
}

// LoadConfig reads an optional .env file then the IMPULSE_* variables.
// Missing variables keep their default value.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file, using the environment only")
	}

	config := defaultConfig()

	var err error
	if config.Gravity, err = envFloat("IMPULSE_GRAVITY", config.Gravity); err != nil {
		return config, err
	}
	if config.VelocityIterations, err = envInt("IMPULSE_VELOCITY_ITERATIONS", config.VelocityIterations); err != nil {
		return config, err
	}
	if config.PositionIterations, err = envInt("IMPULSE_POSITION_ITERATIONS", config.PositionIterations); err != nil {
		return config, err
	}
	if config.Workers, err = envInt("IMPULSE_WORKERS", config.Workers); err != nil {
		return config, err
	}
	if config.Bodies, err = envInt("IMPULSE_BODIES", config.Bodies); err != nil {
		return config, err
	}
	if config.Sound, err = envBool("IMPULSE_SOUND", config.Sound); err != nil {
		return config, err
	}

	return config, nil
}

func envFloat(name string, fallback float64) (float64, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s: %w", name, err)
	}
	return f, nil
}

func envInt(name string, fallback int) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}

	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s: %w", name, err)
	}
	return i, nil
}

func envBool(name string, fallback bool) (bool, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s: %w", name, err)
	}
	return b, nil
}
