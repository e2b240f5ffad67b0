/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/RoshaThankachan/EcoWaste/config"
	"github.com/RoshaThankachan/EcoWaste/internal/kv"
	"github.com/RoshaThankachan/EcoWaste/internal/services"
	"github.com/RoshaThankachan/EcoWaste/internal/store"
	"github.com/RoshaThankachan/EcoWaste/types"
	"github.com/spf13/cobra"
)

// seedCmd represents the seed command.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed sample complaints into an empty store",
	Long: `Seed writes a handful of sample complaints so a fresh
deployment has something to show. It is a no-op when complaints
already exist.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := config.LoadConfig()

		kvStore, err := kv.Open(ctx, cfg.KV)
		if err != nil {
			return fmt.Errorf("open store failed: %w", err)
		}
		defer func() {
			_ = kvStore.Close()
		}()

		complaintRepo := store.NewComplaintRepository(kvStore)
		userRepo := store.NewUserRepository(kvStore)
		sessionRepo := store.NewSessionRepository(kvStore)

		gamificationService := services.NewGamificationService(userRepo, sessionRepo, nil)
		complaintService := services.NewComplaintService(complaintRepo, gamificationService, nil)

		existing, err := complaintService.All(ctx)
		if err != nil {
			return fmt.Errorf("list complaints failed: %w", err)
		}
		if len(existing) > 0 {
			fmt.Printf("store already has %d complaints, nothing to do\n", len(existing))
			return nil
		}

		samples := []services.SubmitInput{
			{Location: "Downtown", WasteType: types.WasteNonBiodegradable, Description: "Overflowing garbage bins near Central Park"},
			{Location: "North District", WasteType: types.WasteBiodegradable, Description: "Uncollected organic waste on Main Street"},
			{Location: "South District", WasteType: types.WasteRecyclable, Description: "Plastic bottles scattered in residential area"},
			{Location: "East District", WasteType: types.WasteHazardous, Description: "Electronic waste dumped near school"},
			{Location: "West District", WasteType: types.WasteNonBiodegradable, Description: "Illegal dumping site discovered"},
		}

		seeded := make([]types.Complaint, 0, len(samples))
		for _, sample := range samples {
			complaint, err := complaintService.Submit(ctx, sample)
			if err != nil {
				return fmt.Errorf("seed complaint failed: %w", err)
			}
			seeded = append(seeded, complaint)
		}

		// Bump a couple of statuses so the dashboard shows some variety.
		if _, err := complaintService.SetStatus(ctx, seeded[0].ID, types.StatusInProgress); err != nil {
			return fmt.Errorf("seed status update failed: %w", err)
		}
		if _, err := complaintService.SetStatus(ctx, seeded[1].ID, types.StatusResolved); err != nil {
			return fmt.Errorf("seed status update failed: %w", err)
		}

		fmt.Printf("seeded %d complaints\n", len(seeded))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
