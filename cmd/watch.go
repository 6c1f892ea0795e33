package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ecomwatch/restock/internal/utils"
	"github.com/ecomwatch/restock/pkg/browser"
	"github.com/ecomwatch/restock/pkg/history"
	"github.com/ecomwatch/restock/pkg/notify"
	"github.com/ecomwatch/restock/pkg/state"
	"github.com/ecomwatch/restock/pkg/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the product page until interrupted, notifying on restock",
	RunE: func(cmd *cobra.Command, _ []string) error {
		target, err := targetFromFlags(cmd)
		if err != nil {
			return err
		}

		interval, _ := cmd.Flags().GetInt("interval")
		if interval <= 0 {
			interval = viper.GetInt("watch.interval")
		}
		statePath, _ := cmd.Flags().GetString("statefile")
		if statePath == "" {
			statePath = viper.GetString("watch.statefile")
		}

		lock, err := utils.NewFileLock(statePath)
		if err != nil {
			return err
		}
		if err := lock.Lock(); err != nil {
			return err
		}
		defer lock.Unlock()

		var hist *history.DB
		if dbPath, _ := cmd.Flags().GetString("dbpath"); dbPath != "" {
			hist, err = history.Open(dbPath)
			if err != nil {
				return err
			}
			defer hist.Close()
		}

		notifiers, err := notifiersFromConfig()
		if err != nil {
			return err
		}
		if len(notifiers) == 0 {
			utils.Log.Warn("No notifier configured, restocks will only be logged")
		}

		checker := checkerFromConfig()
		key := watch.Key(target)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		utils.Log.Infof("Watching %s (color=%q size=%q) every %ds", utils.SiteLabel(target.URL), target.Color, target.Size, interval)

		for {
			if err := ctx.Err(); err != nil {
				utils.Log.Info("Shutting down")
				return nil
			}

			st := state.Load(statePath)
			prev := st.Lookup(key)

			obs := checker.CheckOnce(ctx, target)
			utils.Log.Infof("Checked %s: in_stock=%t reason=%s", utils.SiteLabel(obs.ResolvedURL), obs.InStock, obs.Reason)

			if watch.ShouldNotify(prev, obs) {
				body := notify.FormatRestockMessage(target, obs)
				utils.Log.Infof("Restock detected, notifying %d channel(s)", len(notifiers))
				for _, n := range notifiers {
					if err := n.Send(ctx, "Restock alert", body); err != nil {
						utils.Log.Errorf("Notification via %s failed: %v", n.Name(), err)
					}
				}
			}

			st[key] = watch.EntryFor(obs)
			if err := state.Save(statePath, st); err != nil {
				utils.Log.Errorf("Failed to save state file: %v", err)
			}
			if hist != nil {
				if err := hist.Record(ctx, key, obs); err != nil {
					utils.Log.Warnf("Failed to record observation: %v", err)
				}
			}

			select {
			case <-ctx.Done():
			case <-time.After(time.Duration(interval) * time.Second):
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().Int("interval", 0, "Seconds between checks (default: watch.interval from config)")
	watchCmd.Flags().String("statefile", "", "Path to the JSON state file (default: watch.statefile from config)")
	watchCmd.Flags().String("dbpath", "", "Optional SQLite file to log every observation to")
}

// targetFromFlags resolves the watch target from flags with config
// fallback. The URL is the only hard requirement.
func targetFromFlags(cmd *cobra.Command) (watch.Target, error) {
	t := watch.Target{}
	t.URL, _ = cmd.Flags().GetString("url")
	if t.URL == "" {
		t.URL = viper.GetString("product.url")
	}
	if t.URL == "" {
		return t, errors.New("no product URL given, set --url or product.url in the config")
	}
	t.Color, _ = cmd.Flags().GetString("color")
	if t.Color == "" {
		t.Color = viper.GetString("product.color")
	}
	t.Size, _ = cmd.Flags().GetString("size")
	if t.Size == "" {
		t.Size = viper.GetString("product.size")
	}
	return t, nil
}

// checkerFromConfig builds a Checker backed by a real Chrome instance,
// tuned from the browser.* config keys.
func checkerFromConfig() *watch.Checker {
	cfg := watch.DefaultConfig()
	cfg.Browser = browser.Options{
		Headless:   viper.GetBool("browser.headless"),
		ChromePath: viper.GetString("browser.chromepath"),
	}
	if secs := viper.GetInt("browser.navtimeout"); secs > 0 {
		cfg.NavigationTimeout = time.Duration(secs) * time.Second
	}
	open := func(ctx context.Context, opts browser.Options) (browser.Page, error) {
		return browser.OpenChrome(ctx, opts)
	}
	return watch.NewChecker(open, cfg, utils.Log)
}

// notifiersFromConfig assembles every notification channel the config
// enables. Misconfigured email is an error rather than a silent skip.
func notifiersFromConfig() ([]notify.Notifier, error) {
	var out []notify.Notifier
	if hook := viper.GetString("discord.webhookurl"); hook != "" {
		out = append(out, notify.NewDiscord(hook))
	}
	if viper.GetBool("email.enabled") {
		cfg := notify.EmailConfig{
			Host:     viper.GetString("email.host"),
			Port:     viper.GetInt("email.port"),
			Username: viper.GetString("email.username"),
			Password: viper.GetString("email.password"),
			From:     viper.GetString("email.from"),
			To:       viper.GetString("email.to"),
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		out = append(out, notify.NewEmail(cfg))
	}
	return out, nil
}
