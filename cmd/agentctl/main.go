// Command agentctl is a terminal client for the IdeaForge dashboard API.
// It authenticates against a running dashboard, stores the bearer token on
// disk, and drives the agent endpoints from the command line.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ideaforge/dashboard/client"
)

const defaultServer = "http://localhost:5000"

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, client.ErrReauthenticationRequired) {
			fmt.Fprintln(os.Stderr, "session expired: run `agentctl login` again")
		} else {
			fmt.Fprintf(os.Stderr, "agentctl: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := flag.NewFlagSet("agentctl", flag.ContinueOnError)
	server := flags.String("server", envOrDefault("IDEAFORGE_SERVER", defaultServer), "dashboard base URL")
	debug := flags.Bool("debug", false, "log policy and audit diagnostics")
	flags.Usage = usage(flags)

	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() == 0 {
		flags.Usage()
		return errors.New("missing command")
	}

	store, err := newStore()
	if err != nil {
		return err
	}
	c, err := client.New(client.Config{
		BaseOrigin: strings.TrimSuffix(*server, "/"),
		Store:      store,
	})
	if err != nil {
		return err
	}
	if *debug {
		if err := c.SetDebug(true); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	app := &cli{client: c, server: strings.TrimSuffix(*server, "/"), out: os.Stdout}

	command, rest := flags.Arg(0), flags.Args()[1:]
	switch command {
	case "login":
		return app.login(ctx, rest)
	case "logout":
		return app.logout()
	case "whoami":
		return app.whoami()
	case "ideas":
		return app.ideas(ctx, rest)
	case "roadmap":
		return app.roadmap(ctx, rest)
	case "feasibility":
		return app.feasibility(ctx, rest)
	case "similar":
		return app.similar(ctx, rest)
	case "chat":
		return app.chat(ctx, rest)
	case "history":
		return app.history(ctx)
	default:
		flags.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func usage(flags *flag.FlagSet) func() {
	return func() {
		fmt.Fprintln(os.Stderr, `Usage: agentctl [flags] <command>

Commands:
  login -email <email> -password <password>   authenticate and store the token
  logout                                      clear the stored token
  whoami                                      show the authenticated account
  ideas -domain <domain> -skill <level>       generate project ideas
  roadmap <project description>               create a development roadmap
  feasibility <project description>           assess project feasibility
  similar [-max <n>] <search query>           find similar projects on GitHub
  chat <message>                              talk to the agent
  history                                     show recent agent interactions

Flags:`)
		flags.PrintDefaults()
	}
}

func newStore() (client.Store, error) {
	path, err := client.DefaultStorePath()
	if err != nil {
		return nil, err
	}
	return client.NewFileStore(path)
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

type cli struct {
	client *client.Client
	server string
	out    io.Writer
}

func (a *cli) login(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("login", flag.ContinueOnError)
	email := flags.String("email", "", "account email")
	password := flags.String("password", "", "account password")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return errors.New("login requires -email and -password")
	}

	body, err := json.Marshal(map[string]string{"email": *email, "password": *password})
	if err != nil {
		return err
	}

	resp, err := a.client.Fetch(ctx, a.server+"/api/auth/login", client.Options{
		Method: http.MethodPost,
		Body:   bytes.NewReader(body),
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var envelope struct {
		Data struct {
			Token     string `json:"token"`
			Email     string `json:"email"`
			ExpiresAt string `json:"expires_at"`
		} `json:"data"`
	}
	if err := decode(resp, &envelope); err != nil {
		return err
	}
	if err := a.client.Login(envelope.Data.Token); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "logged in as %s (token expires %s)\n", envelope.Data.Email, envelope.Data.ExpiresAt)
	return nil
}

func (a *cli) logout() error {
	if err := a.client.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "logged out")
	return nil
}

func (a *cli) whoami() error {
	switch a.client.State() {
	case client.StateAuthenticated:
		subject, _ := a.client.Subject()
		fmt.Fprintf(a.out, "authenticated as %s", subject)
		if expiry, ok := a.client.ExpirationInstant(); ok {
			fmt.Fprintf(a.out, " (expires %s)", expiry.Format(time.RFC3339))
		}
		fmt.Fprintln(a.out)
	case client.StateExpired:
		fmt.Fprintln(a.out, "token expired: run `agentctl login` again")
	default:
		fmt.Fprintln(a.out, "not logged in")
	}
	return nil
}

func (a *cli) ideas(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("ideas", flag.ContinueOnError)
	domain := flags.String("domain", "", "project domain, e.g. \"web development\"")
	skill := flags.String("skill", "beginner", "skill level")
	constraints := flags.String("constraints", "", "optional constraints")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *domain == "" {
		return errors.New("ideas requires -domain")
	}

	return a.post(ctx, "/api/agent/ideas", map[string]string{
		"domain":      *domain,
		"skill_level": *skill,
		"constraints": *constraints,
	}, "result")
}

func (a *cli) roadmap(ctx context.Context, args []string) error {
	description := strings.Join(args, " ")
	if strings.TrimSpace(description) == "" {
		return errors.New("roadmap requires a project description")
	}

	resp, err := a.fetchJSON(ctx, "/api/agent/roadmap", map[string]string{
		"project_description": description,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var envelope struct {
		Data struct {
			Roadmap         string `json:"roadmap"`
			SimilarProjects []struct {
				Name        string `json:"name"`
				Description string `json:"description"`
				Stars       int    `json:"stars"`
				URL         string `json:"url"`
			} `json:"similar_projects"`
		} `json:"data"`
	}
	if err := decode(resp, &envelope); err != nil {
		return err
	}

	fmt.Fprintln(a.out, envelope.Data.Roadmap)
	if len(envelope.Data.SimilarProjects) > 0 {
		fmt.Fprintln(a.out, "\nSimilar projects on GitHub:")
		for _, p := range envelope.Data.SimilarProjects {
			fmt.Fprintf(a.out, "  %s (%d stars) %s\n    %s\n", p.Name, p.Stars, p.URL, firstLine(p.Description))
		}
	}
	return nil
}

func (a *cli) similar(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("similar", flag.ContinueOnError)
	max := flags.Int("max", 5, "maximum number of results")
	if err := flags.Parse(args); err != nil {
		return err
	}
	query := strings.Join(flags.Args(), " ")
	if strings.TrimSpace(query) == "" {
		return errors.New("similar requires a search query")
	}

	resp, err := a.fetchJSON(ctx, "/api/tools/github", map[string]interface{}{
		"query":       query,
		"max_results": *max,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var envelope struct {
		Data struct {
			TotalFound int `json:"total_found"`
			Projects   []struct {
				Name        string `json:"name"`
				Description string `json:"description"`
				Stars       int    `json:"stars"`
				Language    string `json:"language"`
				URL         string `json:"url"`
			} `json:"projects"`
		} `json:"data"`
	}
	if err := decode(resp, &envelope); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%d matching repositories\n", envelope.Data.TotalFound)
	for _, p := range envelope.Data.Projects {
		fmt.Fprintf(a.out, "  %s (%d stars, %s) %s\n    %s\n", p.Name, p.Stars, p.Language, p.URL, firstLine(p.Description))
	}
	return nil
}

func (a *cli) feasibility(ctx context.Context, args []string) error {
	description := strings.Join(args, " ")
	if strings.TrimSpace(description) == "" {
		return errors.New("feasibility requires a project description")
	}

	resp, err := a.fetchJSON(ctx, "/api/agent/feasibility", map[string]string{
		"project_description": description,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := decode(resp, &envelope); err != nil {
		return err
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, envelope.Data, "", "  "); err != nil {
		return err
	}
	fmt.Fprintln(a.out, pretty.String())
	return nil
}

func (a *cli) chat(ctx context.Context, args []string) error {
	message := strings.Join(args, " ")
	if strings.TrimSpace(message) == "" {
		return errors.New("chat requires a message")
	}
	return a.post(ctx, "/api/agent/chat", map[string]string{"message": message}, "response")
}

func (a *cli) history(ctx context.Context) error {
	resp, err := a.client.Fetch(ctx, a.server+"/api/agent/history", client.Options{
		Method: http.MethodGet,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var envelope struct {
		Data []struct {
			Action    string    `json:"action"`
			Prompt    string    `json:"prompt"`
			Response  string    `json:"response"`
			CreatedAt time.Time `json:"created_at"`
		} `json:"data"`
	}
	if err := decode(resp, &envelope); err != nil {
		return err
	}
	if len(envelope.Data) == 0 {
		fmt.Fprintln(a.out, "no history yet")
		return nil
	}
	for _, m := range envelope.Data {
		fmt.Fprintf(a.out, "[%s] %s\n  you: %s\n  agent: %s\n",
			m.CreatedAt.Format(time.RFC3339), m.Action, firstLine(m.Prompt), firstLine(m.Response))
	}
	return nil
}

// post sends a JSON body and prints the named string field of the data
// envelope.
func (a *cli) post(ctx context.Context, path string, payload map[string]string, field string) error {
	resp, err := a.fetchJSON(ctx, path, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var envelope struct {
		Data map[string]string `json:"data"`
	}
	if err := decode(resp, &envelope); err != nil {
		return err
	}

	fmt.Fprintln(a.out, envelope.Data[field])
	return nil
}

func (a *cli) fetchJSON(ctx context.Context, path string, payload interface{}) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return a.client.Fetch(ctx, a.server+path, client.Options{
		Method: http.MethodPost,
		Body:   bytes.NewReader(body),
	})
}

func decode(resp *http.Response, v interface{}) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		raw, _ := io.ReadAll(resp.Body)
		if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Message != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}
