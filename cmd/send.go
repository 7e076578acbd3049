package cmd

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/iksnae/ragchat/internal"
	"github.com/spf13/cobra"
)

var (
	sendFiles  []string
	sendPhotos []string
	sendCodes  []string
	sendNew    bool
)

var sendCmd = &cobra.Command{
	Use:   "send [question...]",
	Short: "Ask one question and print the reply",
	Long: `Send a single question to the backend and print the reply with its citations.

Files, photos and scanned codes can be staged with --file, --photo and --qr;
a submission needs at least one of text, attachment or code. The reply is
stored in the thread given by --thread, a new thread with --new, or the most
recently updated thread.

Examples:
  ragchat send "Spindle will not start"
  ragchat send --photo panel.jpg --qr MX-4411 "What does this alarm mean?"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		if sendNew {
			a.ctrl.NewThread()
		} else if err := a.selectThread(threadID); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := stageInputs(ctx, a.ctrl, sendFiles, sendPhotos, sendCodes); err != nil {
			a.ctrl.ClearPending()
			return err
		}

		reply, sendErr := sendWithSpinner(ctx, a, strings.Join(args, " "))
		if reply.ID != "" {
			printReply(cmd.OutOrStdout(), reply)
		}
		return sendErr
	},
}

// stageInputs stages files, photos and codes on the controller
func stageInputs(ctx context.Context, ctrl *internal.Controller, files, photos, codes []string) error {
	for _, path := range files {
		if _, err := ctrl.StageFile(ctx, path); err != nil {
			return err
		}
	}
	for _, path := range photos {
		if _, err := ctrl.StagePhoto(ctx, path); err != nil {
			return err
		}
	}
	for _, code := range codes {
		if err := ctrl.AddCode(code); err != nil {
			return err
		}
	}
	return nil
}

// sendWithSpinner runs one exchange behind the localized "thinking" spinner
func sendWithSpinner(ctx context.Context, a *app, text string) (internal.Message, error) {
	strs := internal.T(a.lang)
	if a.ctrl.Snapshot().Offline {
		internal.LogInfo("%s", strs.Offline)
	}

	var reply internal.Message
	err := internal.ShowProgress(ctx, strs.Thinking, func() error {
		var sendErr error
		reply, sendErr = a.ctrl.Send(ctx, text)
		return sendErr
	})
	return reply, err
}

func printReply(out io.Writer, msg internal.Message) {
	fmt.Fprintln(out, internal.FormatMessage(msg))
	fmt.Fprintln(out)
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&threadID, "thread", "t", "", "Thread to send in")
	sendCmd.Flags().BoolVar(&sendNew, "new", false, "Start a new thread for this question")
	sendCmd.Flags().StringArrayVar(&sendFiles, "file", nil, "Attach a file (repeatable)")
	sendCmd.Flags().StringArrayVar(&sendPhotos, "photo", nil, "Attach a photo, re-encoded as PNG (repeatable)")
	sendCmd.Flags().StringArrayVar(&sendCodes, "qr", nil, "Add a scanned QR code or machine ID (repeatable)")
}
