// Command admintoken prints a signed admin JWT for the /api/v1/admin endpoints.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/denisAlshanov/stickerGallery/internal/config"
	"github.com/denisAlshanov/stickerGallery/internal/services/auth"
)

func main() {
	cfg, err := config.LoadAdmin()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	subject := flag.String("sub", "admin", "token subject")
	ttl := flag.Duration("ttl", cfg.TokenTTL, "token lifetime")
	flag.Parse()

	svc := auth.NewJWTService(auth.JWTConfig{
		SecretKey:     cfg.JWTSecret,
		Issuer:        cfg.Issuer,
		TokenDuration: *ttl,
	})

	token, err := svc.GenerateAdminToken(*subject)
	if err != nil {
		log.Fatalf("Failed to generate token: %v", err)
	}
	fmt.Println(token)
}
