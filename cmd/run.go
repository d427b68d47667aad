package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ColonelBlimp/lasertag/internal/adc"
	"github.com/ColonelBlimp/lasertag/internal/config"
	"github.com/ColonelBlimp/lasertag/internal/core"
	"github.com/ColonelBlimp/lasertag/internal/recovery"
)

// runWeapon runs a live weapon until interrupted.
func runWeapon(cmd *cobra.Command, _ []string) error {
	settings, err := config.Get()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := setupLogger(settings, cmd.ErrOrStderr()); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	lines, closeLines, err := openIO(settings)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeLines(); err != nil {
			slog.Warn("release gpio lines", "error", err)
		}
	}()

	weapon, err := core.New(coreConfig(settings), lines)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	grace := settings.Ticks(settings.InvincibilityMs)
	weapon.Pump().SetHitHandler(func(ch int) {
		slog.Info("hit", "channel", ch, "hits", weapon.HitCounts()[ch])
		weapon.AcknowledgeHit()
		if err := weapon.StartInvincibility(grace); err != nil {
			slog.Warn("invincibility", "error", err)
		}
	})

	capture := adc.NewCapture(adc.Config{
		DeviceIndex: settings.DeviceIndex,
		TickRate:    uint32(settings.TickRate),
		BufferSize:  uint32(settings.BufferSize),
	}, weapon.Scheduler().ServiceBlock)
	if err := capture.Init(); err != nil {
		return fmt.Errorf("audio: %w", err)
	}
	defer capture.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := capture.Start(ctx); err != nil {
		return fmt.Errorf("audio: %w", err)
	}

	slog.Info("weapon ready", "channel", settings.Channel,
		"clip", settings.ClipSize, "fudge_factor", settings.FudgeFactor)

	done := make(chan error, 1)
	go func() {
		// a detector panic must not leave the transmitter line driven
		defer recovery.HandlePanicFunc(func() {
			_ = capture.Close()
			_ = closeLines()
		})
		done <- weapon.Poll(ctx)
	}()
	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	var shots, dropped uint64
	weapon.Mask().Do(func() {
		shots = weapon.Trigger().Shots()
		dropped = weapon.Buffer().Dropped()
	})
	slog.Info("weapon stopped", "ticks", weapon.Scheduler().Ticks(),
		"shots", shots, "dropped", dropped)
	printHitCounts(cmd.OutOrStdout(), weapon.HitCounts())
	return nil
}
