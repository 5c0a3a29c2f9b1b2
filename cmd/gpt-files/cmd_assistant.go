package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/hn12404988/gpt-files/internal/manager"
	"github.com/hn12404988/gpt-files/internal/openai"
)

func init() {
	rootCmd.AddCommand(assistantCmd)
	assistantCmd.AddCommand(assistantCreateCmd, assistantUpdateCmd, assistantGetCmd, assistantListCmd, assistantDeleteCmd)

	assistantCreateCmd.Flags().String("name", "", "assistant name (required)")
	assistantCreateCmd.Flags().String("model", "", "model identifier (required)")
	assistantCreateCmd.Flags().String("description", "", "assistant description")
	assistantCreateCmd.Flags().String("instructions", "", "system instructions")
	assistantCreateCmd.Flags().Bool("with-store", false, "also create and link a vector store")
	_ = assistantCreateCmd.MarkFlagRequired("name")
	_ = assistantCreateCmd.MarkFlagRequired("model")

	assistantUpdateCmd.Flags().String("name", "", "new assistant name")
	assistantUpdateCmd.Flags().String("model", "", "new model identifier")
	assistantUpdateCmd.Flags().String("description", "", "new description")
	assistantUpdateCmd.Flags().String("instructions", "", "new system instructions")

	assistantDeleteCmd.Flags().Bool("purge", false, "also delete attached files and the vector store")
}

var assistantCmd = &cobra.Command{
	Use:   "assistant",
	Short: "Manage assistants",
}

var assistantCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an assistant",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newManager()
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")
		model, _ := cmd.Flags().GetString("model")
		description, _ := cmd.Flags().GetString("description")
		instructions, _ := cmd.Flags().GetString("instructions")
		withStore, _ := cmd.Flags().GetBool("with-store")

		a, err := m.CreateAssistant(cmd.Context(), manager.CreateOptions{
			Name:         name,
			Model:        model,
			Description:  description,
			Instructions: instructions,
			WithStore:    withStore,
		})
		if err != nil {
			return err
		}
		return printJSON(a)
	},
}

var assistantUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an assistant's fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		// Only flags the caller explicitly set are sent; everything else
		// stays untouched on the remote record.
		var params openai.UpdateAssistantParams
		if cmd.Flags().Changed("name") {
			v, _ := cmd.Flags().GetString("name")
			params.Name = &v
		}
		if cmd.Flags().Changed("model") {
			v, _ := cmd.Flags().GetString("model")
			params.Model = &v
		}
		if cmd.Flags().Changed("description") {
			v, _ := cmd.Flags().GetString("description")
			params.Description = &v
		}
		if cmd.Flags().Changed("instructions") {
			v, _ := cmd.Flags().GetString("instructions")
			params.Instructions = &v
		}

		a, err := c.UpdateAssistant(cmd.Context(), args[0], params)
		if err != nil {
			return err
		}
		return printJSON(a)
	},
}

var assistantGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show an assistant (defaults to the configured assistant)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		id := ""
		if len(args) > 0 {
			id = args[0]
		} else {
			id, err = assistantID()
			if err != nil {
				return err
			}
		}
		a, err := c.GetAssistant(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printJSON(a)
	},
}

var assistantListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all assistants",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		assistants, err := c.ListAssistants(cmd.Context())
		if err != nil {
			return err
		}

		if len(assistants) == 0 {
			fmt.Println("No assistants.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tMODEL\tCREATED")
		for _, a := range assistants {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				a.ID,
				a.Name,
				a.Model,
				formatTime(a.CreatedAt),
			)
		}
		return w.Flush()
	},
}

var assistantDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an assistant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newManager()
		if err != nil {
			return err
		}
		purge, _ := cmd.Flags().GetBool("purge")
		if err := m.DeleteAssistant(cmd.Context(), args[0], purge); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Assistant %s deleted.\n", args[0])
		return nil
	},
}
