package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"strings"
)

func main() {
	if err := run(); err != nil {
		log.Printf("client: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "localhost:8635", "chat server address")
	user := flag.String("user", "cli-user", "username")
	flag.Parse()

	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	// The server prompts for a username on connect; answer it right away.
	if _, err := fmt.Fprintf(conn, "%s\n", *user); err != nil {
		return fmt.Errorf("send username: %w", err)
	}

	fmt.Printf("Connected to %s as %s\n", *addr, *user)
	fmt.Println("Type messages and press Enter to send. Type 'quit' to exit.")

	done := make(chan struct{})
	go func() {
		defer close(done)
		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			line := scanner.Text()
			if line == "Enter your username:" {
				continue
			}
			fmt.Println(line)
		}
	}()

	stdin := bufio.NewScanner(os.Stdin)
	for stdin.Scan() {
		text := stdin.Text()
		if _, err := fmt.Fprintf(conn, "%s\n", text); err != nil {
			break
		}
		if strings.EqualFold(strings.TrimSpace(text), "quit") {
			break
		}
	}

	conn.Close()
	<-done
	return nil
}
