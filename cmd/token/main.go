// Command token signs a bearer token for an identity with the service's
// configured secret, issuer and lifetime.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/okian/bounty/internal/adapters/identity"
	"github.com/okian/bounty/internal/config"
	"github.com/okian/bounty/internal/domain/model"
)

func main() {
	var (
		subject = flag.String("identity", "", "Identity to sign the token for")
		ttl     = flag.Duration("ttl", 0, "Token lifetime (default: token_ttl from config)")
	)
	flag.Parse()

	if *subject == "" {
		os.Stderr.WriteString("missing -identity\n")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(context.Background())
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *ttl > 0 {
		cfg.TokenTTL = *ttl
	}

	tokens, err := identity.New(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	if err != nil {
		os.Stderr.WriteString("failed to build token engine: " + err.Error() + "\n")
		os.Exit(1)
	}
	tok, err := tokens.Issue(model.Identity(*subject))
	if err != nil {
		os.Stderr.WriteString("failed to sign token: " + err.Error() + "\n")
		os.Exit(1)
	}
	fmt.Println(tok)
}
