package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tarot-bot/internal/ephemeris"
	"tarot-bot/internal/models"
)

var localized bool

// chartCmd prints planet placements without contacting Telegram or a model.
var chartCmd = &cobra.Command{
	Use:   `chart "DD.MM.YYYY, HH:MM, Place"`,
	Short: "Print the planet placements for a birth date",
	Example: `  bot chart "12.03.1995, 14:45, Moscow"
  bot chart --ru 12.03.1995, 14:45, Москва`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := models.ParseBirthQuery(strings.Join(args, " "))
		if err != nil {
			return err
		}

		positions, err := ephemeris.NewResolver().Resolve(q)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s, %s UTC\n", q.Place, q.Time().Format("02.01.2006 15:04"))
		for _, p := range positions {
			if localized {
				fmt.Fprintln(out, p.Localized())
			} else {
				fmt.Fprintln(out, p.String())
			}
		}
		return nil
	},
}

func init() {
	chartCmd.Flags().BoolVar(&localized, "ru", false, "print body and sign names in Russian")
}
