package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/derekaspaulding/portfolio/contact"
)

var (
	contactName     string
	contactEmail    string
	contactMessage  string
	contactEndpoint string
)

var contactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Send a message through a contact form backend",
	Long: `Validate and send one contact submission the same way the contact page
does. Useful for checking that a deployed form backend accepts posts.

The endpoint defaults to contact.endpoint, then to site.url.

Examples:
  portfolio contact --name Ada --email ada@example.com --message "Hello"
  portfolio contact --endpoint https://example.com/ -n Ada -e ada@example.com -m Hi`,
	RunE: runContact,
}

func init() {
	rootCmd.AddCommand(contactCmd)

	contactCmd.Flags().StringVarP(&contactName, "name", "n", "", "sender name")
	contactCmd.Flags().StringVarP(&contactEmail, "email", "e", "", "sender email")
	contactCmd.Flags().StringVarP(&contactMessage, "message", "m", "", "message body")
	contactCmd.Flags().StringVar(&contactEndpoint, "endpoint", "", "form backend URL")
}

func runContact(cmd *cobra.Command, args []string) error {
	endpoint := contactEndpoint
	if endpoint == "" {
		endpoint = viper.GetString(keyEndpoint)
	}
	if endpoint == "" {
		endpoint = strings.TrimSuffix(viper.GetString(keySiteURL), "/") + "/"
	}

	flow := contact.NewFlow(contact.NewHTTPSubmitter(endpoint),
		contact.WithFormName(viper.GetString(keyFormName)),
		contact.WithValues(contact.Values{
			Name:    contactName,
			Email:   contactEmail,
			Message: contactMessage,
		}),
	)

	_, err := flow.Submit(cmd.Context())
	if errors.Is(err, contact.ErrInvalid) {
		state := flow.Snapshot()
		for _, f := range contact.Fields {
			if msg := state.VisibleError(f); msg != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", f, msg)
			}
		}
		return err
	}
	if err != nil {
		return fmt.Errorf("send to %s: %w", endpoint, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Message sent to %s\n", endpoint)
	return nil
}
