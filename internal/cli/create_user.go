package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mrlokans/bookhive/internal/auth"
	"github.com/mrlokans/bookhive/internal/database/users"
	"github.com/mrlokans/bookhive/internal/entrypoint"
)

// CreateUserCommand creates an account from the shell. It is the only way
// to create a librarian.
type CreateUserCommand struct {
	Username  string
	Email     string
	Librarian bool

	// readPassword prompts for a hidden password; replaced in tests.
	readPassword func(prompt string) (string, error)
}

func NewCreateUserCommand() *CreateUserCommand {
	return &CreateUserCommand{readPassword: readTerminalPassword}
}

func (cmd *CreateUserCommand) Cobra() *cobra.Command {
	c := &cobra.Command{
		Use:     "create-user",
		Short:   "Create an account, optionally as a librarian",
		Example: "  bookhive create-user --username admin_lib --email admin@library.com --librarian",
		Args:    cobra.NoArgs,
		RunE:    cmd.Run,
	}
	c.Flags().StringVar(&cmd.Username, "username", "", "account username (required)")
	c.Flags().StringVar(&cmd.Email, "email", "", "account email")
	c.Flags().BoolVar(&cmd.Librarian, "librarian", false, "allow the account to add books")
	_ = c.MarkFlagRequired("username")
	return c
}

func (cmd *CreateUserCommand) Run(c *cobra.Command, _ []string) error {
	password, err := cmd.promptPassword()
	if err != nil {
		return err
	}

	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, err := entrypoint.OpenDatabase(c.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	accounts := auth.NewService(users.NewRepository(db.DB), cfg.Auth, nil)
	user, err := accounts.Register(c.Context(), auth.RegisterInput{
		Username:    cmd.Username,
		Email:       cmd.Email,
		Password:    password,
		IsLibrarian: cmd.Librarian,
	})
	if err != nil {
		return err
	}

	role := "reader"
	if user.IsLibrarian {
		role = "librarian"
	}
	fmt.Fprintf(c.OutOrStdout(), "Created %s %q with ID %d\n", role, user.Username, user.ID)
	return nil
}

// promptPassword asks for the password twice.
func (cmd *CreateUserCommand) promptPassword() (string, error) {
	password, err := cmd.readPassword("Password: ")
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if len(password) < auth.MinPasswordLength {
		return "", auth.ErrPasswordTooShort
	}
	confirm, err := cmd.readPassword("Confirm password: ")
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if password != confirm {
		return "", errors.New("passwords do not match")
	}
	return password, nil
}

func readTerminalPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(password)), nil
}
