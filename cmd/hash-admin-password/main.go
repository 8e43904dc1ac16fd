package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/eventocaixa/backend/pkg/config"
	"github.com/eventocaixa/backend/pkg/security"
)

// Produces the EVENTOCAIXA_ADMIN_PASSWORD_HASH value. Reads the password from
// stdin so it never lands in shell history.
func main() {
	flag.Parse()

	_ = godotenv.Load()

	var cfg config.PasswordConfig
	if err := envconfig.Process(config.EnvPrefix, &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "parsing argon config: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprint(os.Stderr, "password: ")
	reader := bufio.NewReader(os.Stdin)
	password, err := reader.ReadString('\n')
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading password: %v\n", err)
		os.Exit(1)
	}
	password = strings.TrimRight(password, "\r\n")

	hash, err := security.HashPassword(password, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hashing password: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hash)
}
