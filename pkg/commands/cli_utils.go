package commands

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/cams7/cadferias/pkg/application"
	"github.com/cams7/cadferias/pkg/eventbus"
)

// NewUtilityCommands creates the maintenance commands (check_tr_keys,
// check_tr_usage) for the given modules.
func NewUtilityCommands(mods ...application.Module) []*cobra.Command {
	return []*cobra.Command{
		newCheckTrKeysCmd(mods),
		newCheckTrUsageCmd(mods),
	}
}

func newCheckTrKeysCmd(mods []application.Module) *cobra.Command {
	return &cobra.Command{
		Use:   "check_tr_keys",
		Short: "Check translation key consistency across all locales",
		Long:  `Validates that every translation key is present in every configured locale and reports the missing ones.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return CheckTrKeys(nil, mods...)
		},
	}
}

func newCheckTrUsageCmd(mods []application.Module) *cobra.Command {
	var root string
	cmd := &cobra.Command{
		Use:   "check_tr_usage",
		Short: "Check that every translation key used in code exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			return CheckTrUsage(root, nil, mods...)
		},
	}
	cmd.Flags().StringVar(&root, "root", ".", "source tree to scan")
	return cmd
}

// newApplication loads the modules into an application that is only used to
// inspect the translation bundle.
func newApplication(mods ...application.Module) (application.Application, error) {
	logger := logrus.StandardLogger()
	app := application.New(&application.ApplicationOptions{
		Bundle:   application.LoadBundle(language.BrazilianPortuguese),
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	for _, m := range mods {
		if err := m.Register(app); err != nil {
			return nil, err
		}
	}
	return app, nil
}
