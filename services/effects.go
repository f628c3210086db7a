package services

import (
	"context"
	"log"
)

// NonCriticalEffect runs a side effect whose failure never reaches the caller of the primary operation.
// Errors and panics are logged and swallowed.
type NonCriticalEffect struct {
	Name string
}

func (e NonCriticalEffect) Run(ctx context.Context, fn func(ctx context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("⚠️ Non-critical effect %s panicked: %v", e.Name, r)
		}
	}()

	if err := fn(ctx); err != nil {
		log.Printf("⚠️ Non-critical effect %s failed: %v", e.Name, err)
		return
	}

	log.Printf("✅ Non-critical effect %s completed", e.Name)
}
