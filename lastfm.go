package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/llehouerou/reel/internal/config"
	"github.com/llehouerou/reel/internal/errmsg"
	"github.com/llehouerou/reel/internal/lastfm"
	"github.com/llehouerou/reel/internal/log"
	"github.com/llehouerou/reel/internal/state"
)

var errNoLastfmConfig = errors.New("set lastfm.api_key and lastfm.api_secret in the config first")

var lastfmCmd = &cobra.Command{
	Use:   "lastfm",
	Short: "Manage the Last.fm account tagged items are scrobbled to",
}

var lastfmLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Link a Last.fm account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withLastfm(func(cfg *config.Config, mgr *state.Manager) error {
			client := lastfm.New(cfg.Lastfm.APIKey, cfg.Lastfm.APISecret)
			return login(cmd.InOrStdin(), cmd.OutOrStdout(), client, mgr)
		})
	},
}

var lastfmLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Unlink the Last.fm account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withLastfm(func(_ *config.Config, mgr *state.Manager) error {
			if err := mgr.DeleteLastfmSession(); err != nil {
				return errors.New(errmsg.Format(errmsg.OpLastfmUnlink, err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Last.fm account unlinked")
			return nil
		})
	},
}

var lastfmStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the linked account and queued scrobbles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withLastfm(func(_ *config.Config, mgr *state.Manager) error {
			return printLastfmStatus(cmd.OutOrStdout(), mgr)
		})
	},
}

func init() {
	lastfmCmd.AddCommand(lastfmLoginCmd, lastfmLogoutCmd, lastfmStatusCmd)
}

// withLastfm runs fn with the configuration and an open state database.
func withLastfm(fn func(*config.Config, *state.Manager) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.HasLastfm() {
		return errNoLastfmConfig
	}
	mgr, err := state.Open(cfg.Database)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpStateOpen, err))
	}
	defer mgr.Close()
	return fn(cfg, mgr)
}

// login runs the desktop authorization flow: the user grants access in the
// browser and confirms in the terminal.
func login(in io.Reader, out io.Writer, client *lastfm.Client, mgr *state.Manager) error {
	token, err := client.Token()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpLastfmAuth, err))
	}
	u := client.AuthURL(token)
	if err := lastfm.OpenBrowser(u); err != nil {
		log.Debugf("open browser: %v", err)
	}
	fmt.Fprintf(out, "Grant access at\n  %s\nthen press Enter.\n", u)
	if _, err := bufio.NewReader(in).ReadString('\n'); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	username, key, err := client.Session(token)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpLastfmAuth, err))
	}
	if err := mgr.SaveLastfmSession(username, key); err != nil {
		return errors.New(errmsg.Format(errmsg.OpLastfmAuth, err))
	}
	if username == "" {
		username = "your account"
	}
	fmt.Fprintf(out, "Linked %s\n", username)
	return nil
}

func printLastfmStatus(out io.Writer, mgr *state.Manager) error {
	session, err := mgr.LastfmSession()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpLastfmSession, err))
	}
	if session == nil {
		fmt.Fprintln(out, "not linked")
	} else {
		fmt.Fprintf(out, "linked to %s %s\n", session.Username, humanize.Time(session.LinkedAt))
	}
	pending, err := mgr.PendingScrobbles()
	if err != nil {
		return err
	}
	if len(pending) > 0 {
		fmt.Fprintf(out, "%d scrobbles queued, oldest %s\n", len(pending), humanize.Time(pending[0].StartedAt))
	}
	return nil
}

// openScrobbler returns a client for the linked account, or nil when
// scrobbling is not set up.
func openScrobbler(cfg *config.Config, mgr *state.Manager) *lastfm.Client {
	if !cfg.HasLastfm() || mgr == nil {
		return nil
	}
	session, err := mgr.LastfmSession()
	if err != nil {
		log.Warnf("%s", errmsg.Format(errmsg.OpLastfmSession, err))
		return nil
	}
	if session == nil {
		return nil
	}
	if err := mgr.PrunePendingScrobbles(lastfm.MaxAge); err != nil {
		log.Warnf("prune scrobbles: %v", err)
	}
	client := lastfm.New(cfg.Lastfm.APIKey, cfg.Lastfm.APISecret)
	client.SetSessionKey(session.SessionKey)
	return client
}
