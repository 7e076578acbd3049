package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/ragchat/internal"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

const historyFileName = "history"

var (
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	stagedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Italic(true)
	chatCommands = map[string]string{
		"/attach":  "<path>      stage a file",
		"/photo":   "<path>      stage a photo",
		"/qr":      "<code>      add a scanned code or machine ID",
		"/pending": "            show staged input",
		"/unstage": "<id>        drop a staged attachment",
		"/clear":   "            drop all staged input",
		"/new":     "            start a new thread",
		"/threads": "[query]     list threads",
		"/switch":  "<id>        switch thread",
		"/rename":  "<title>     rename the current thread",
		"/delete":  "[id]        delete a thread (default: current)",
		"/history": "            reprint the current thread",
		"/end":     "            rate and close the current chat",
		"/lang":    "<es|en>     change language",
		"/help":    "            show this help",
		"/quit":    "            leave",
	}
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat",
	Long: `Start an interactive chat session.

Type a question and press enter. Lines starting with / are commands; type
/help to list them. Staged attachments and codes are sent with the next
question and cleared once the reply arrives.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.selectThread(threadID); err != nil {
			return err
		}

		line := liner.NewLiner()
		defer line.Close()
		line.SetCtrlCAborts(true)
		line.SetCompleter(completeCommand)

		historyPath := filepath.Join(a.paths.BasePath, historyFileName)
		if f, err := os.Open(historyPath); err == nil {
			_, _ = line.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(historyPath); err == nil {
				_, _ = line.WriteHistory(f)
				_ = f.Close()
			} else {
				internal.LogDebug("Failed to save history: %v", err)
			}
		}()

		unsubscribe := a.ctrl.Subscribe(func(s internal.Snapshot) {
			internal.LogDebug("state=%s thread=%s messages=%d", s.State, s.Active.ID, len(s.Messages))
		})
		defer unsubscribe()

		s := &chatSession{app: a, line: line, out: cmd.OutOrStdout()}
		return s.run(cmd.Context())
	},
}

// chatSession drives the read-eval loop on top of the controller
type chatSession struct {
	app  *app
	line *liner.State
	out  io.Writer
}

func (s *chatSession) run(ctx context.Context) error {
	s.banner()
	for {
		input, err := s.line.Prompt(s.prompt())
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			if p := s.app.ctrl.Snapshot().Pending; len(p.Attachments) == 0 && len(p.Codes) == 0 {
				continue
			}
		} else {
			s.line.AppendHistory(input)
		}

		if strings.HasPrefix(input, "/") {
			quit, err := s.command(ctx, input)
			if err != nil {
				internal.PrintError(err.Error())
			}
			if quit {
				return nil
			}
			continue
		}
		s.send(ctx, input)
	}
}

func (s *chatSession) prompt() string {
	snap := s.app.ctrl.Snapshot()
	staged := len(snap.Pending.Attachments) + len(snap.Pending.Codes)
	p := shortID(snap.Active.ID)
	if staged > 0 {
		p += fmt.Sprintf(" +%d", staged)
	}
	return p + " > "
}

func (s *chatSession) banner() {
	snap := s.app.ctrl.Snapshot()
	strs := internal.T(s.app.lang)
	fmt.Fprintln(s.out, promptStyle.Render("💬 "+snap.Active.Title))
	if snap.Offline {
		fmt.Fprintln(s.out, stagedStyle.Render(strs.Offline))
	}
	if len(snap.Messages) == 0 {
		fmt.Fprintln(s.out, hintStyle.Render(strs.EmptyState))
	} else {
		for _, m := range snap.Messages {
			printReply(s.out, m)
		}
	}
	fmt.Fprintln(s.out, hintStyle.Render("/help"))
}

func (s *chatSession) send(ctx context.Context, text string) {
	sendCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT)
	defer stop()

	reply, err := sendWithSpinner(sendCtx, s.app, text)
	if reply.ID != "" {
		printReply(s.out, reply)
	}
	if err != nil {
		internal.LogDebug("send failed: %v", err)
		if reply.ID == "" {
			internal.PrintError(err.Error())
		}
	}
}

// command runs a slash command and reports whether the loop should stop
func (s *chatSession) command(ctx context.Context, input string) (bool, error) {
	name, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)
	ctrl := s.app.ctrl

	switch name {
	case "/quit", "/exit":
		return true, nil
	case "/help":
		s.help()
	case "/attach":
		att, err := ctrl.StageFile(ctx, arg)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(s.out, stagedStyle.Render("📎 "+shortID(att.ID)+" "+internal.Describe(att)))
	case "/photo":
		att, err := ctrl.StagePhoto(ctx, arg)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(s.out, stagedStyle.Render("📷 "+shortID(att.ID)+" "+internal.Describe(att)))
	case "/qr":
		if arg == "" {
			return false, fmt.Errorf("usage: /qr <code>")
		}
		return false, ctrl.AddCode(arg)
	case "/pending":
		s.pending()
	case "/unstage":
		return false, ctrl.Unstage(s.stagedID(arg))
	case "/clear":
		ctrl.ClearPending()
	case "/new":
		t := ctrl.NewThread()
		fmt.Fprintln(s.out, promptStyle.Render("💬 "+t.Title))
	case "/threads":
		threads := ctrl.Registry().Search(arg, 20)
		counts := make(map[string]int, len(threads))
		for _, t := range threads {
			if msgs, err := ctrl.Messages(t.ID); err == nil {
				counts[t.ID] = len(msgs)
			}
		}
		displayThreads(s.out, threads, counts, ctrl.Snapshot().Active.ID, internal.T(s.app.lang))
	case "/switch":
		if err := s.app.selectThread(arg); err != nil {
			return false, err
		}
		s.history()
	case "/rename":
		return false, ctrl.RenameThread(ctrl.Snapshot().Active.ID, arg)
	case "/delete":
		id := ctrl.Snapshot().Active.ID
		if arg != "" {
			id = s.app.resolveThreadID(arg)
		}
		return false, ctrl.DeleteThread(id)
	case "/history":
		s.history()
	case "/end":
		return false, s.end()
	case "/lang":
		s.app.lang = internal.ParseLang(arg)
		ctrl.SetLang(s.app.lang)
	default:
		return false, fmt.Errorf("unknown command %s (try /help)", name)
	}
	return false, nil
}

func (s *chatSession) help() {
	names := make([]string, 0, len(chatCommands))
	for name := range chatCommands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(s.out, "  %-9s %s\n", name, hintStyle.Render(chatCommands[name]))
	}
}

func (s *chatSession) pending() {
	p := s.app.ctrl.Snapshot().Pending
	if len(p.Attachments) == 0 && len(p.Codes) == 0 {
		fmt.Fprintln(s.out, hintStyle.Render("nothing staged"))
		return
	}
	for _, att := range p.Attachments {
		fmt.Fprintln(s.out, stagedStyle.Render("📎 "+shortID(att.ID)+" "+internal.Describe(att)))
	}
	for _, code := range p.Codes {
		fmt.Fprintln(s.out, stagedStyle.Render("🏷  "+code))
	}
}

// stagedID expands a short attachment ID printed by /pending
func (s *chatSession) stagedID(prefix string) string {
	for _, att := range s.app.ctrl.Snapshot().Pending.Attachments {
		if strings.HasPrefix(att.ID, prefix) {
			return att.ID
		}
	}
	return prefix
}

func (s *chatSession) history() {
	snap := s.app.ctrl.Snapshot()
	fmt.Fprintln(s.out, promptStyle.Render("💬 "+snap.Active.Title))
	for _, m := range snap.Messages {
		printReply(s.out, m)
	}
}

// end walks through the end-of-chat form
func (s *chatSession) end() error {
	strs := internal.T(s.app.lang)
	defaults := s.app.ctrl.SummaryDefaults()
	fmt.Fprintln(s.out, promptStyle.Render(strs.EndChat))

	title, err := s.line.PromptWithSuggestion("title: ", defaults.Title, -1)
	if err != nil {
		return err
	}
	desc, err := s.line.PromptWithSuggestion("description: ", defaults.Description, -1)
	if err != nil {
		return err
	}
	answer, err := s.line.Prompt(strs.Useful + " [y/n] ")
	if err != nil {
		return err
	}
	useful, ok := parseYesNo(answer)
	if !ok {
		return internal.ErrRatingRequired
	}
	comments, err := s.line.Prompt(strs.Comments + ": ")
	if err != nil {
		return err
	}

	if err := s.app.ctrl.EndChat(internal.Summary{
		Title:       title,
		Description: desc,
		Useful:      &useful,
		Comments:    comments,
		TitleEdited: strings.TrimSpace(title) != defaults.Title,
	}); err != nil {
		return err
	}
	internal.PrintSuccess(strs.EndChat)
	return nil
}

// parseYesNo accepts y/yes/s/si/sí and n/no in either language
func parseYesNo(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "s", "si", "sí":
		return true, true
	case "n", "no":
		return false, true
	default:
		return false, false
	}
}

func completeCommand(line string) []string {
	if !strings.HasPrefix(line, "/") || strings.Contains(line, " ") {
		return nil
	}
	var out []string
	for name := range chatCommands {
		if strings.HasPrefix(name, line) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVarP(&threadID, "thread", "t", "", "Thread to continue")
}
