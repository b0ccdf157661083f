package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"
	"siglo-server/internal/config"
	"siglo-server/internal/jwt"
	"siglo-server/internal/util"
	"siglo-server/pkg/db"
	"siglo-server/pkg/store"
)

var command = flag.String("c", "token", "specifies the command (token, keys, room, delete-room)")
var ttl = flag.Duration("ttl", 24*time.Hour, "token lifetime, zero for no expiry")

func main() {
	flag.Parse()

	switch *command {
	case "token":
		jwt.LoadKeys()

		playerID := flag.Arg(0)
		if playerID == "" {
			playerID = util.RandomPlayerID()
			_, _ = fmt.Fprintf(os.Stderr, "Generated player ID %s\n", playerID)
		}

		token, err := jwt.Sign(playerID, *ttl)
		if err != nil {
			logrus.WithError(err).Fatal("could not sign token")
		}

		fmt.Println(token)
	case "keys":
		cfg := config.Instance()
		if err := jwt.GenerateKeys(cfg.JWT.PrivateKey, cfg.JWT.PublicKey); err != nil {
			logrus.WithError(err).Fatal("could not generate keys")
		}

		fmt.Printf("Wrote %s and %s\n", cfg.JWT.PrivateKey, cfg.JWT.PublicKey)
	case "room":
		roomCode := getArgOrInput("Room code")
		if roomCode == "" {
			os.Exit(1)
		}

		r, err := postgresStore().Get(context.Background(), roomCode)
		if err != nil {
			logrus.WithError(err).Fatal("could not load room")
		}

		enc := json.NewEncoder(os.Stdout)
		if term.IsTerminal(int(os.Stdout.Fd())) {
			enc.SetIndent("", "  ")
		}

		if err := enc.Encode(r); err != nil {
			logrus.WithError(err).Fatal("could not encode room")
		}
	case "delete-room":
		roomCode := getArgOrInput("Room code")
		if roomCode == "" {
			os.Exit(1)
		}

		confirm, err := getInput(fmt.Sprintf("Delete room %s (y/N)", roomCode))
		if err != nil {
			logrus.WithError(err).Fatal("could not get answer")
		}

		if confirm == "" || strings.ToLower(confirm)[0] != 'y' {
			return
		}

		if err := postgresStore().Delete(context.Background(), roomCode); err != nil {
			logrus.WithError(err).Fatal("could not delete room")
		}

		fmt.Printf("Deleted room %s\n", roomCode)
	default:
		logrus.Fatalf("unknown command: %s", *command)
	}
}

func postgresStore() *store.Postgres {
	return store.NewPostgres(db.Instance(), config.Instance().Store.MaxRetries)
}

// getArgOrInput returns the first positional argument, prompting for it if there is none
func getArgOrInput(question string) string {
	if flag.NArg() > 0 {
		return flag.Arg(0)
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		_, _ = fmt.Fprintf(os.Stderr, "%s is required\n", strings.ToLower(question))
		return ""
	}

	str, err := getInput(question)
	if err != nil {
		logrus.WithError(err).Fatal("could not get answer")
	}

	return str
}

func getInput(question string) (string, error) {
	fmt.Printf("%s: ", question)
	reader := bufio.NewReader(os.Stdin)
	str, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	str = strings.TrimRight(str, "\r\n")

	return str, nil
}
