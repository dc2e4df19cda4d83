package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/five82/vapor/internal/vapor"
)

func newListsCmd(flags *globalFlags) *cobra.Command {
	var (
		create string
		icon   string
		hex    string
		show   int
	)
	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Print your game lists, or create one with --create",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := bootstrap(flags)
			if err != nil {
				return err
			}
			defer rt.Close()

			if !rt.Sessions.LoggedIn() {
				return fmt.Errorf("not signed in; run vapor login")
			}

			if show > 0 {
				list, err := rt.Client.List(cmd.Context(), show)
				if errors.Is(err, vapor.ErrNotFound) {
					return fmt.Errorf("no list with id %d", show)
				}
				if err != nil {
					return fmt.Errorf("list %d: %s", show, vapor.Message(err))
				}
				printf("%s %s\n", list.IconOr("•"), list.Name)
				faint := color.New(color.Faint)
				faint.Printf("id %d · color %s\n", list.ID, list.ColorOr("none"))
				faint.Printf("games: vapor games --list %d\n", list.ID)
				return nil
			}

			if create != "" {
				payload := vapor.CreateListPayload{Name: strings.TrimSpace(create), Icon: icon, Color: hex}
				list, err := rt.Client.CreateList(cmd.Context(), payload)
				if err != nil {
					return fmt.Errorf("create list: %s", vapor.Message(err))
				}
				color.New(color.FgGreen).Printf("Created list %q (id %d)\n", list.Name, list.ID)
				return nil
			}

			lists, err := rt.Client.Lists(cmd.Context())
			if err != nil {
				return fmt.Errorf("lists: %s", vapor.Message(err))
			}
			if len(lists) == 0 {
				printf("No lists yet. Create one with vapor lists --create NAME\n")
				return nil
			}
			faint := color.New(color.Faint)
			for _, l := range lists {
				swatch := "  "
				if l.Color != nil {
					swatch = lipgloss.NewStyle().Background(lipgloss.Color(*l.Color)).Render("  ")
				}
				faint.Fprintf(os.Stdout, "%5d ", l.ID)
				printf("%s %s %s\n", swatch, l.IconOr("•"), l.Name)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&create, "create", "", "create a list with this name")
	cmd.Flags().StringVar(&icon, "icon", "", "icon for --create")
	cmd.Flags().StringVar(&hex, "color", "", "hex color for --create, e.g. #1e90ff")
	cmd.Flags().IntVar(&show, "show", 0, "show one list by id")
	return cmd
}
