package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chris-regnier/moodjournal/internal/auth"
	"github.com/chris-regnier/moodjournal/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readPassword prompts on stderr and reads a password without echo when
// stdin is a terminal, or a single line otherwise.
var readPassword = func(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		return string(b), err
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	Example: `  moodjournal signup --name "Ada Lovelace" --email ada@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")

		password, err := readPassword("Password: ")
		if err != nil {
			return err
		}
		confirm, err := readPassword("Confirm password: ")
		if err != nil {
			return err
		}

		return signupRun(cmd.Context(), cmd.OutOrStdout(), auth.SignUpInput{
			Name:            name,
			Email:           email,
			Password:        password,
			ConfirmPassword: confirm,
		})
	},
}

func signupRun(ctx context.Context, w io.Writer, in auth.SignUpInput) error {
	u, err := authSvc.SignUp(ctx, in)
	if err != nil {
		return err
	}
	if jsonOutput {
		return ui.FormatJSON(w, u)
	}
	fmt.Fprintf(w, "Account created for %s. Run `moodjournal login` to sign in.\n", u.Email)
	return nil
}

var loginCmd = &cobra.Command{
	Use:     "login",
	Short:   "Sign in",
	Example: `  moodjournal login --email ada@example.com`,
	PostRunE: invalidateCachePostRun,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, err := readPassword("Password: ")
		if err != nil {
			return err
		}
		return loginRun(cmd.Context(), cmd.OutOrStdout(), auth.SignInInput{Email: email, Password: password})
	},
}

func loginRun(ctx context.Context, w io.Writer, in auth.SignInInput) error {
	// Signing in replaces any previous CLI session.
	_ = authSvc.SignOut("")

	sess, err := authSvc.SignIn(ctx, in)
	if err != nil {
		return err
	}
	if err := authSvc.Activate(sess); err != nil {
		return err
	}
	if jsonOutput {
		return ui.FormatJSON(w, sess.User)
	}
	fmt.Fprintf(w, "Signed in as %s.\n", displayName(sess.User))
	return nil
}

var logoutCmd = &cobra.Command{
	Use:      "logout",
	Short:    "Sign out",
	PostRunE: invalidateCachePostRun,
	RunE: func(cmd *cobra.Command, args []string) error {
		return logoutRun(cmd.OutOrStdout())
	},
}

func logoutRun(w io.Writer) error {
	if err := authSvc.SignOut(""); err != nil {
		return err
	}
	fmt.Fprintln(w, "Signed out.")
	return nil
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return whoamiRun(cmd.OutOrStdout())
	},
}

func whoamiRun(w io.Writer) error {
	sess, err := currentSession()
	if err != nil {
		return err
	}
	if jsonOutput {
		return ui.FormatJSON(w, sess.User)
	}
	fmt.Fprintln(w, displayName(sess.User))
	return nil
}

func displayName(u auth.User) string {
	if u.FullName == "" {
		return u.Email
	}
	return fmt.Sprintf("%s <%s>", u.FullName, u.Email)
}

func init() {
	signupCmd.Flags().String("name", "", "full name")
	signupCmd.Flags().String("email", "", "email address")
	loginCmd.Flags().String("email", "", "email address")
	rootCmd.AddCommand(signupCmd, loginCmd, logoutCmd, whoamiCmd)
}
