// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads operator credentials from a directory of plain-text
// files. Each file is one secret: the filename is the key and the trimmed
// contents are the value.
//
// Known keys: contact-email (identifies the operator to the catalog and the
// query service) and bot-user (the account edits are attributed to).
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Known keys.
const (
	ContactEmail = "contact-email"
	BotUser      = "bot-user"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory is not an error; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}
	return secrets, nil
}

// UserAgent appends the operator contact to product, as the Wikimedia
// User-Agent policy asks: "biblioteksdata/0.1 (ops@example.org)".
// A product that already names a contact is returned unchanged.
func UserAgent(product string, secrets map[string]string) string {
	email := secrets[ContactEmail]
	if email == "" || strings.Contains(product, "(") {
		return product
	}
	return fmt.Sprintf("%s (%s)", product, email)
}

// EditSummary attributes summary to the bot account when one is configured.
func EditSummary(summary string, secrets map[string]string) string {
	user := secrets[BotUser]
	if user == "" {
		return summary
	}
	return fmt.Sprintf("%s (User:%s)", summary, user)
}
