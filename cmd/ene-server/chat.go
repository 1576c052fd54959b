package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/enehealths/support/internal/config"
)

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive counselor session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat()
		},
	}
}

func runChat() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	svc := newCounselorService(cfg)
	ctx := context.Background()
	sess, err := svc.StartSession(ctx)
	if err != nil {
		return err
	}

	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("EneHealths Mental Health Support")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("\nThis counselor can provide support for common mental health")
	fmt.Println("concerns (anxiety, depression, stress, grief, insomnia) and")
	fmt.Println("point you at EneHealths services and resources.")
	fmt.Println("\nType 'exit' to quit.")
	fmt.Println(strings.Repeat("=", 80))

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nPlease enter your concern or question: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		switch strings.ToLower(input) {
		case "exit", "quit", "bye":
			fmt.Println("\nThank you for using EneHealths support. Take care!")
			return nil
		}

		reply, err := svc.Respond(ctx, sess.ID, input)
		if err != nil {
			return err
		}
		fmt.Println("\nCounselor Response:")
		fmt.Println(reply.Text)
	}
	return scanner.Err()
}
