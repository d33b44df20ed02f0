package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/moinsen-dev/scrubber/internal/fsutil"
	"github.com/moinsen-dev/scrubber/internal/security"
)

var (
	protectOutput string
	revealOutput  string
)

var protectCmd = &cobra.Command{
	Use:   "protect <file>",
	Short: "Encrypt a file that must be backed up verbatim",
	Long: "protect age-encrypts a file with a passphrase so it can enter the backup " +
		"without redaction. The sanitizer recognizes the armored output and skips it.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pass, err := passphrase()
		if err != nil {
			return err
		}
		src := fsutil.ExpandHome(args[0])
		dst := protectOutput
		if dst == "" {
			dst = src + ".age"
		}
		if err := security.EncryptFile(src, dst, pass); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Encrypted %s -> %s\n", src, dst)
		return nil
	},
}

var revealCmd = &cobra.Command{
	Use:   "reveal <file>",
	Short: "Decrypt a file produced by protect",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pass, err := passphrase()
		if err != nil {
			return err
		}
		src := fsutil.ExpandHome(args[0])
		dst := revealOutput
		if dst == "" {
			if !strings.HasSuffix(src, ".age") {
				return fmt.Errorf("cannot derive output name from %s; use --output", src)
			}
			dst = strings.TrimSuffix(src, ".age")
		}
		if err := security.DecryptFile(src, dst, pass); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Decrypted %s -> %s\n", src, dst)
		return nil
	},
}

// passphrase reads the encryption passphrase from the environment. Backup
// workflows are non-interactive, so there is no terminal prompt.
func passphrase() (string, error) {
	pass := os.Getenv("SCRUBBER_PASSPHRASE")
	if pass == "" {
		return "", fmt.Errorf("SCRUBBER_PASSPHRASE is not set")
	}
	return pass, nil
}

func init() {
	protectCmd.Flags().StringVarP(&protectOutput, "output", "o", "", "Output path (default: <file>.age)")
	revealCmd.Flags().StringVarP(&revealOutput, "output", "o", "", "Output path (default: <file> without .age)")
	rootCmd.AddCommand(protectCmd)
	rootCmd.AddCommand(revealCmd)
}
