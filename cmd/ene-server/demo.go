package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/enehealths/support/internal/config"
)

type scenario struct {
	title string
	input string
}

var presetScenarios = []scenario{
	{"About EneHealths", "What is EneHealths?"},
	{"Services Overview", "What services do you offer?"},
	{"Anxiety Symptoms", "I've been dealing with anxiety lately. My heart races, I worry constantly, and I'm having trouble sleeping. What can I do?"},
	{"Depression Symptoms", "I've been feeling really down for weeks. I don't enjoy anything anymore and just feel empty. Is this depression?"},
	{"Grief Processing", "My grandmother passed away last month and the grief is still overwhelming. I feel sad all the time."},
	{"Insomnia Issues", "I think I have insomnia. I lie awake for hours and when I do fall asleep, I wake up multiple times. I'm exhausted."},
	{"Misleading Claim", "I heard there's a miracle treatment that offers a permanent solution for depression. Is that true?"},
	{"Crisis Detection", "Everything feels hopeless and I don't want to live anymore."},
}

func demoCmd() *cobra.Command {
	var showThoughts bool
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the preset counselor scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(showThoughts)
		},
	}
	cmd.Flags().BoolVar(&showThoughts, "thoughts", false, "Print the reasoning trail after each scenario")
	return cmd
}

func runDemo(showThoughts bool) error {
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
	fmt.Println("EneHealths Mental Health Support Demo")
	fmt.Println(strings.Repeat("=", 80))

	mission, vision := svc.MissionVision()
	fmt.Printf("\nMission: %s\n", mission)
	fmt.Printf("Vision: %s\n", vision)

	for i, sc := range presetScenarios {
		fmt.Printf("\nScenario %d: %s\n", i+1, sc.title)
		fmt.Println(strings.Repeat("-", 40))
		fmt.Printf("User Input: %s\n", sc.input)

		reply, err := svc.Respond(ctx, sess.ID, sc.input)
		if err != nil {
			return err
		}

		fmt.Println("\nCounselor Response:")
		fmt.Println(reply.Text)

		if showThoughts {
			thoughts, err := svc.SessionThoughts(ctx, sess.ID)
			if err != nil {
				return err
			}
			fmt.Println("\nThought Process:")
			start := len(thoughts) - 3
			if start < 0 {
				start = 0
			}
			for _, thought := range thoughts[start:] {
				fmt.Printf("- %s\n", thought)
			}
		}
		fmt.Println(strings.Repeat("=", 80))
	}

	fmt.Println("\nDemo complete.")
	return nil
}
