// Command hash-generator prints bcrypt hashes for the passwords given as
// arguments, for seeding users directly into the database.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/phrazzld/task-tracker-api/internal/domain"
	"github.com/phrazzld/task-tracker-api/internal/service/auth"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost factor")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: hash-generator [-cost N] password...\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := printHashes(os.Stdout, auth.NewBcryptHasher(*cost), flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type hasher interface {
	Hash(password string) (string, error)
}

func printHashes(w io.Writer, h hasher, passwords []string) error {
	for _, password := range passwords {
		if len(password) > domain.MaxPasswordLength {
			return fmt.Errorf("password %q exceeds %d bytes", password, domain.MaxPasswordLength)
		}
		hash, err := h.Hash(password)
		if err != nil {
			return fmt.Errorf("failed to hash %q: %w", password, err)
		}
		if _, err := fmt.Fprintln(w, hash); err != nil {
			return err
		}
	}
	return nil
}
