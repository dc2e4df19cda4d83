package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/five82/vapor/internal/vapor"
)

func newAvatarsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "avatars",
		Short: "List the selectable profile pictures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := bootstrap(flags)
			if err != nil {
				return err
			}
			defer rt.Close()

			avatars, err := rt.Client.Avatars(cmd.Context())
			if err != nil {
				return fmt.Errorf("avatars: %s", vapor.Message(err))
			}
			faint := color.New(color.Faint)
			for _, a := range avatars {
				printf("%s %s\n", faint.Sprintf("%4d", a.ID), a.Link)
			}
			return nil
		},
	}
}

func newProfileCmd(flags *globalFlags) *cobra.Command {
	var (
		email          string
		avatar         string
		changePassword bool
	)
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Change your email, password or avatar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if email == "" && avatar == "" && !changePassword {
				return errors.New("nothing to change; pass --email, --avatar or --password")
			}

			rt, err := bootstrap(flags)
			if err != nil {
				return err
			}
			defer rt.Close()

			if !rt.Sessions.LoggedIn() {
				return errors.New("not signed in; run vapor login")
			}
			ctx := cmd.Context()
			me, err := rt.Client.Me(ctx)
			if err != nil {
				return fmt.Errorf("load profile: %s", vapor.Message(err))
			}

			// The endpoint replaces the email, so always send one.
			payload := vapor.UpdateUserPayload{Email: me.Email}
			if email != "" {
				payload.Email = strings.TrimSpace(email)
			}
			if avatar != "" {
				avatars, err := rt.Client.Avatars(ctx)
				if err != nil {
					return fmt.Errorf("avatars: %s", vapor.Message(err))
				}
				id, ok := vapor.AvatarIDFor(avatars, avatar)
				if !ok {
					return fmt.Errorf("unknown avatar %q; see vapor avatars", avatar)
				}
				payload.AvatarID = &id
			}
			if changePassword {
				if payload.Password, err = promptPassword("New password (min 6)"); err != nil {
					return err
				}
			}

			msg, err := rt.Client.UpdateUser(ctx, me.ID, payload)
			if err != nil {
				var verr *vapor.ValidationError
				if errors.As(err, &verr) {
					return fmt.Errorf("check %s", strings.Join(verr.Fields(), ", "))
				}
				return fmt.Errorf("update profile: %s", vapor.Message(err))
			}
			if payload.Email != me.Email {
				if err := rt.Sessions.Save(rt.Sessions.Token(), payload.Email); err != nil {
					rt.Logger.Warn("update session email failed", zap.Error(err))
				}
			}
			if msg == "" {
				msg = "Profile updated"
			}
			color.New(color.FgGreen).Println(msg)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "new email")
	cmd.Flags().StringVar(&avatar, "avatar", "", "avatar link from vapor avatars")
	cmd.Flags().BoolVar(&changePassword, "password", false, "prompt for a new password")
	return cmd
}
