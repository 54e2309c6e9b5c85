package main

import (
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database tables and indexes, then exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn := newConnector()
		defer conn.Close()

		// OnConnect applies the schema.
		if _, err := conn.DB(cmd.Context()); err != nil {
			return err
		}
		log.Info("schema is up to date")
		return nil
	},
}
