// Command hash-password prints bcrypt hashes for the given passwords, for
// inserting users by hand.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/phrazzld/catalog-api/internal/service/auth"
)

func main() {
	cost := flag.Int("cost", 10, "bcrypt cost (4-31)")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: hash-password [-cost n] password...")
		os.Exit(2)
	}
	if err := hashPasswords(os.Stdout, auth.NewBcryptHasher(*cost), flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// hashPasswords writes one hash per password, in order.
func hashPasswords(w io.Writer, hasher auth.PasswordHasher, passwords []string) error {
	for _, password := range passwords {
		hash, err := hasher.Hash(password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		if _, err := fmt.Fprintln(w, hash); err != nil {
			return err
		}
	}
	return nil
}
