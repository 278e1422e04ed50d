package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sevigo/review-council/internal/persona"
)

var personasCmd = &cobra.Command{
	Use:   "personas",
	Short: "List all available review personas",
	RunE:  runPersonas,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	rootCmd.AddCommand(personasCmd)
}

func runPersonas(_ *cobra.Command, _ []string) error {
	registry, err := persona.Defaults()
	if err != nil {
		return err
	}

	bold := color.New(color.Bold)
	bold.Println("📋 Available personas:")
	for i, desc := range registry.List() {
		fmt.Printf("  %d. %s - %s\n", i+1, desc.Name, desc.Focus)
	}
	fmt.Println()
	fmt.Println("Usage examples:")
	fmt.Println(`  review-council review --personas "code quality" main.go`)
	fmt.Println(`  review-council review --personas "bug hunter" main.go`)
	fmt.Println(`  review-council review --personas "code quality,bug hunter" main.go`)
	return nil
}
