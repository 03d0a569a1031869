// learnctl is a small command line client for the learning platform API.
// It persists the issued token and profile locally, so authenticated commands
// work across invocations until the token expires.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/arjuns-sics/intelligent-learning-platform/pkg/client"
)

func main() {
	server := flag.String("server", envOr("LEARNIFY_SERVER", "http://localhost:3000"), "API base URL")
	storePath := flag.String("store", defaultStorePath(), "path to the local session database")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	store, err := client.OpenStore(*storePath)
	if err != nil {
		fatal("open session store: %v", err)
	}
	defer store.Close()

	session := client.NewSession(client.NewAPI(*server), store)

	switch args[0] {
	case "register":
		runRegister(session, args[1:])
	case "login":
		runLogin(session, args[1:])
	case "logout":
		report(session.Logout(), "Logged out")
	case "whoami":
		runWhoami(session)
	case "profile":
		runProfile(session, args[1:])
	case "passwd":
		runPasswd(session, args[1:])
	default:
		usage()
		os.Exit(2)
	}
}

func runRegister(session *client.Session, args []string) {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email address")
	pass := fs.String("password", "", "password")
	role := fs.String("role", "", "role (Student, Instructor or Admin; default Student)")
	media := fs.String("media", "", "preferred learning media")
	fs.Parse(args)

	in := client.RegisterInput{
		Name:     *name,
		Email:    *email,
		Password: *pass,
		Role:     *role,
	}
	if *media != "" {
		in.PreferredMedia = media
	}
	report(session.Register(in), "Registered and logged in")
}

func runLogin(session *client.Session, args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	pass := fs.String("password", "", "password")
	fs.Parse(args)

	report(session.Login(*email, *pass), "Logged in")
}

func runWhoami(session *client.Session) {
	user, err := session.User()
	if err != nil {
		fatal("%v", err)
	}
	if user == nil {
		fmt.Println("Not logged in")
		return
	}
	out, _ := json.MarshalIndent(user, "", "  ")
	fmt.Println(string(out))
}

func runProfile(session *client.Session, args []string) {
	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	name := fs.String("name", "", "new display name")
	image := fs.String("image", "", "new profile image reference")
	media := fs.String("media", "", "new preferred learning media")
	fs.Parse(args)

	var in client.ProfileUpdateInput
	if *name != "" {
		in.Name = name
	}
	if *image != "" {
		in.ProfileImage = image
	}
	if *media != "" {
		in.PreferredMedia = media
	}
	report(session.UpdateProfile(in), "Profile updated")
}

func runPasswd(session *client.Session, args []string) {
	fs := flag.NewFlagSet("passwd", flag.ExitOnError)
	current := fs.String("current", "", "current password")
	next := fs.String("new", "", "new password")
	fs.Parse(args)

	report(session.ChangePassword(*current, *next), "Password changed")
}

func report(res client.Result, successMessage string) {
	if !res.Success {
		fatal("%s", res.Error)
	}
	fmt.Println(successMessage)
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "learnify.db"
	}
	return filepath.Join(home, ".learnify", "session.db")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: learnctl [flags] <command>

commands:
  register  -name NAME -email EMAIL -password PASS [-role ROLE] [-media MEDIA]
  login     -email EMAIL -password PASS
  whoami
  profile   [-name NAME] [-image REF] [-media MEDIA]
  passwd    -current PASS -new PASS
  logout`)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
