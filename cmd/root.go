// cmd/root.go
package cmd

import (
	"fmt"
	"os"

	"github.com/ColonelBlimp/lasertag/internal/config"
	"github.com/ColonelBlimp/lasertag/internal/recovery"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "lasertag",
	Short: "Laser tag weapon: hit detector and game timing",
	Long: `Runs one laser tag weapon. The optical receiver is sampled through an
audio input at the tick rate, a ten channel filter bank decides which weapon
hit you, and the trigger, transmitter and indicator timers run once per tick.`,
	SilenceUsage: true,
	RunE:         runWeapon,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags (override config file)
	rootCmd.PersistentFlags().IntP("device", "d", -1, "audio device index (-1 for default)")
	rootCmd.PersistentFlags().IntP("channel", "c", 0, "carrier channel this weapon transmits on (0-9)")
	rootCmd.PersistentFlags().IntP("fudge", "F", 1000, "hit margin over the median channel power")
	rootCmd.PersistentFlags().BoolP("debug", "D", false, "enable debug output")

	bindFlags()
	rootCmd.AddCommand(simulateCmd, scanCmd)
}

// bindFlags binds the global flags to their config keys.
func bindFlags() {
	viper.BindPFlag("device_index", rootCmd.PersistentFlags().Lookup("device"))
	viper.BindPFlag("channel", rootCmd.PersistentFlags().Lookup("channel"))
	viper.BindPFlag("fudge_factor", rootCmd.PersistentFlags().Lookup("fudge"))
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

func initConfig() {
	if err := config.Init(); err != nil {
		recovery.Halt(fmt.Errorf("config error: %w", err))
	}
}
