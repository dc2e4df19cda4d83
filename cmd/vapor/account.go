package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/five82/vapor/internal/vapor"
)

func newLoginCmd(flags *globalFlags) *cobra.Command {
	var (
		email         string
		passwordStdin bool
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and save the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := bootstrap(flags)
			if err != nil {
				return err
			}
			defer rt.Close()

			if email == "" {
				if email, err = promptLine("Email: "); err != nil {
					return err
				}
			}
			var password string
			if passwordStdin {
				password, err = readLine(os.Stdin)
			} else {
				password, err = promptPassword("Password")
			}
			if err != nil {
				return err
			}

			token, err := rt.Client.Login(cmd.Context(), vapor.LoginPayload{Email: strings.TrimSpace(email), Password: password})
			if err != nil {
				return fmt.Errorf("login: %s", vapor.Message(err))
			}
			if err := rt.Account().Save(token, strings.TrimSpace(email)); err != nil {
				return err
			}
			rt.Logger.Info("logged in", zap.String("email", email))
			color.New(color.FgGreen).Printf("Signed in as %s\n", strings.TrimSpace(email))
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	return cmd
}

func newLogoutCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			rt, err := bootstrap(flags)
			if err != nil {
				return err
			}
			defer rt.Close()

			if !rt.Sessions.LoggedIn() {
				printf("Not signed in\n")
				return nil
			}
			email := rt.Sessions.Email()
			if err := rt.Account().Clear(); err != nil {
				return err
			}
			rt.Logger.Info("logged out", zap.String("email", email))
			printf("Signed out %s\n", email)
			return nil
		},
	}
}

func newWhoamiCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := bootstrap(flags)
			if err != nil {
				return err
			}
			defer rt.Close()

			if !rt.Sessions.LoggedIn() {
				return errors.New("not signed in; run vapor login")
			}
			me, err := rt.Client.Me(cmd.Context())
			if err != nil {
				return fmt.Errorf("whoami: %s", vapor.Message(err))
			}

			label := color.New(color.Faint).SprintFunc()
			color.New(color.Bold).Printf("%s\n", me.NickName)
			printf("%s %s\n", label("name  "), me.FullName())
			printf("%s %s\n", label("email "), me.Email)
			printf("%s %s\n", label("role  "), me.Role)
			if created := me.ParsedCreatedAt(); !created.IsZero() {
				printf("%s %s\n", label("joined"), humanize.Time(created))
			}
			if claims, err := rt.Sessions.Claims(); err == nil && !claims.ExpiresAt.IsZero() {
				printf("%s %s\n", label("token "), "expires "+humanize.RelTime(claims.ExpiresAt, time.Now(), "ago", "from now"))
			}
			return nil
		},
	}
}

func newRegisterCmd(flags *globalFlags) *cobra.Command {
	var p vapor.RegisterPayload
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := bootstrap(flags)
			if err != nil {
				return err
			}
			defer rt.Close()

			for _, field := range []struct {
				prompt string
				dst    *string
			}{
				{"Nickname: ", &p.NickName},
				{"First name: ", &p.FirstName},
				{"Last name: ", &p.LastName},
				{"Email: ", &p.Email},
				{"Birth date (DD/MM/YYYY): ", &p.BirthDate},
			} {
				if *field.dst != "" {
					continue
				}
				if *field.dst, err = promptLine(field.prompt); err != nil {
					return err
				}
			}
			if p.BirthDate, err = vapor.NormalizeBirthDate(p.BirthDate); err != nil {
				return err
			}
			if p.Password, err = promptPassword("Password (min 6)"); err != nil {
				return err
			}

			resp, err := rt.Client.Register(cmd.Context(), p)
			if err != nil {
				var verr *vapor.ValidationError
				if errors.As(err, &verr) {
					return fmt.Errorf("check %s", strings.Join(verr.Fields(), ", "))
				}
				return fmt.Errorf("register: %s", vapor.Message(err))
			}
			msg := resp.Message
			if msg == "" {
				msg = "Account created"
			}
			color.New(color.FgGreen).Printf("%s. Run vapor login --email %s\n", msg, p.Email)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&p.NickName, "nickname", "", "nickname")
	f.StringVar(&p.FirstName, "first-name", "", "first name")
	f.StringVar(&p.LastName, "last-name", "", "last name")
	f.StringVar(&p.Email, "email", "", "email")
	f.StringVar(&p.BirthDate, "birth-date", "", "birth date, DD/MM/YYYY or YYYY-MM-DD")
	f.StringVar(&p.Avatar, "avatar", "", "avatar image link")
	return cmd
}

func promptLine(prompt string) (string, error) {
	printf("%s", prompt)
	return readLine(os.Stdin)
}

func readLine(f *os.File) (string, error) {
	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
