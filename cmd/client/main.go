package main

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"os"
)

// Thin interactive client: stdin goes to the socket, socket output goes
// to stdout. All protocol logic lives on the server.
func main() {
	addr := os.Getenv("CHAT_SERVER_ADDR")
	if addr == "" {
		addr = "localhost:9806"
	}

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to %s: %v\n", addr, err)
		os.Exit(1)
	}
	defer conn.Close()

	fmt.Println("Connected. Commands: /register <login> <password>, /login <login> <password>, /msg <user> <text>, /history <user>, /exit")

	go func() {
		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			fmt.Println(scanner.Text())
		}
		fmt.Println("Disconnected from server")
		os.Exit(0)
	}()

	stdin := bufio.NewScanner(os.Stdin)
	for stdin.Scan() {
		line := stdin.Text()
		if _, err := io.WriteString(conn, line+"\n"); err != nil {
			fmt.Fprintf(os.Stderr, "write failed: %v\n", err)
			return
		}
		if line == "/exit" {
			return
		}
	}
}
