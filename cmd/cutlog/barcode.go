package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weighline/cutlog/internal/controller"
	"github.com/weighline/cutlog/internal/kvstore"
)

var barcodeGrams string

var barcodeCmd = &cobra.Command{
	Use:   "barcode <code>",
	Short: "Look up a food by barcode and log it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		grams := controller.ParseGrams(barcodeGrams)
		return withController(func(ctrl *controller.Controller, _ kvstore.Store) error {
			view, found, err := ctrl.LogBarcode(context.Background(), args[0], grams)
			if err != nil {
				return fmt.Errorf("barcode lookup: %w", err)
			}
			if !found {
				fmt.Fprintln(cmd.OutOrStdout(), "No food matches that barcode. Try searching by name instead.")
				return nil
			}
			printView(cmd.OutOrStdout(), view)
			return nil
		})
	},
}

func init() {
	barcodeCmd.Flags().StringVar(&barcodeGrams, "grams", "", "Amount eaten in grams")
	_ = barcodeCmd.MarkFlagRequired("grams")
	rootCmd.AddCommand(barcodeCmd)
}
