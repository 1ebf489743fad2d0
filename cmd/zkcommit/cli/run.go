package cli

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"zkcommit/internal/platform/config"
	perr "zkcommit/internal/platform/errors"
	dom "zkcommit/internal/services/workflow/domain"
	"zkcommit/internal/services/workflow/service"
)

type runFlags struct {
	clientFlags
	url           string
	signatureFile string
	messageFile   string
	proofFile     string
	skipVerify    bool
	timeout       time.Duration
}

func newRun() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Load a commit, generate a proof and verify it, printing the result.",
		Long: `Drive one workflow to completion and print its snapshot as JSON.

The commit comes from --url, or from --signature-file and --message-file.
--proof-file supplies an existing proof instead of generating one.

Exit status is 0 when the proof verifies (or verification is skipped),
1 when the proof service rejects it, and 2 on any other failure.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f.apply()
			ctx, cancel := context.WithTimeout(cmd.Context(), f.timeout)
			defer cancel()
			return runOnce(ctx, conf(), f, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&f.url, "url", "", "GitHub commit url, e.g. https://github.com/owner/repo/commit/sha")
	cmd.Flags().StringVar(&f.signatureFile, "signature-file", "", "file holding the armored SSH signature")
	cmd.Flags().StringVar(&f.messageFile, "message-file", "", "file holding the signed commit payload")
	cmd.Flags().StringVar(&f.proofFile, "proof-file", "", "use this proof instead of generating one")
	cmd.Flags().BoolVar(&f.skipVerify, "skip-verify", false, "stop after the proof is ready")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 5*time.Minute, "overall deadline")
	cmd.Flags().StringVar(&f.proofURL, "proof-url", "", "proof service base url (ZKCOMMIT_PROOF_BASE_URL)")
	cmd.Flags().StringVar(&f.githubURL, "github-url", "", "GitHub API base url (ZKCOMMIT_GH_BASE_URL)")
	cmd.Flags().StringVar(&f.ghTokens, "github-tokens", "", "comma separated GitHub tokens (ZKCOMMIT_GH_TOKENS)")
	cmd.MarkFlagsMutuallyExclusive("url", "signature-file")
	cmd.MarkFlagsMutuallyExclusive("url", "message-file")
	cmd.MarkFlagsRequiredTogether("signature-file", "message-file")
	return cmd
}

func usage(err error) error { return &ExitError{Code: 2, Err: err} }

// runOnce drives a single controller and maps the outcome to an exit status
func runOnce(ctx context.Context, cfg config.Conf, f runFlags, out io.Writer) error {
	if f.url == "" && f.signatureFile == "" {
		return usage(perr.InvalidArgf("either --url or --signature-file with --message-file is required"))
	}

	deps, err := buildDeps(cfg)
	if err != nil {
		return usage(err)
	}
	c := service.NewController(deps.GitHub, deps.Proofs)

	snap, err := prepare(ctx, c, f)
	if err != nil {
		return report(out, snap, err)
	}
	if !f.skipVerify {
		if snap, err = c.VerifyProof(ctx); err != nil {
			return report(out, snap, err)
		}
	}
	if err := writeSnapshot(out, snap); err != nil {
		return usage(err)
	}
	if snap.Phase == dom.PhaseVerificationFailed {
		return &ExitError{Code: 1, Err: errors.New("proof did not verify")}
	}
	return nil
}

// prepare loads the commit and gets a proof in hand
func prepare(ctx context.Context, c *service.Controller, f runFlags) (dom.Snapshot, error) {
	if f.url != "" {
		if snap, err := c.LoadCommitFromURL(ctx, f.url); err != nil {
			return snap, err
		}
	} else {
		sig, err := os.ReadFile(f.signatureFile)
		if err != nil {
			return c.Snapshot(), perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "read signature file")
		}
		msg, err := os.ReadFile(f.messageFile)
		if err != nil {
			return c.Snapshot(), perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "read message file")
		}
		c.SetSignature(string(sig))
		c.SetMessage(string(msg))
	}

	if f.proofFile != "" {
		b, err := os.ReadFile(f.proofFile)
		if err != nil {
			return c.Snapshot(), perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "read proof file")
		}
		return c.SetProofText(string(b)), nil
	}
	return c.GenerateProof(ctx)
}

// report prints the snapshot of a failed run and exits 2
func report(out io.Writer, snap dom.Snapshot, err error) error {
	_ = writeSnapshot(out, snap)
	return usage(err)
}

func writeSnapshot(out io.Writer, snap dom.Snapshot) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}
