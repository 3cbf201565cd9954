package main

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/osse101/ThrowBot_Go/internal/domain"
)

type TestEventCommand struct{}

func (c *TestEventCommand) Name() string {
	return "test-event"
}

func (c *TestEventCommand) Description() string {
	return "Inject a sample event (follow, cheer <bits>, redeem <reward_id>, chat <text>)"
}

var testUser = domain.UserRef{ID: "devtool", Login: "devtool", DisplayName: "DevTool"}

func (c *TestEventCommand) Run(args []string) error {
	kind := "follow"
	if len(args) > 0 {
		kind, args = args[0], args[1:]
	}

	ev, err := sampleEvent(kind, args)
	if err != nil {
		return err
	}
	body, err := domain.MarshalExternalEvent(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	PrintHeader(fmt.Sprintf("Injecting %s event...", ev.Kind()))

	req, err := http.NewRequest(http.MethodPost, apiURL()+"/api/v1/events", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey := os.Getenv("API_KEY"); apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	client := &http.Client{Timeout: healthTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	PrintSuccess("Event queued: %s", body)
	PrintInfo("Watch %s/events/stream for the resulting effects", apiURL())
	return nil
}

func sampleEvent(kind string, args []string) (domain.ExternalEvent, error) {
	switch kind {
	case "follow":
		return domain.FollowEvent{User: testUser}, nil
	case "cheer":
		bits := uint64(100)
		if len(args) > 0 {
			n, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid bits amount %q: %w", args[0], err)
			}
			bits = n
		}
		user := testUser
		return domain.CheerBitsEvent{
			User:  &user,
			Input: domain.BitsInput{Bits: uint32(bits), Message: "Cheer" + strconv.FormatUint(bits, 10)},
		}, nil
	case "redeem":
		if len(args) < 1 {
			return nil, fmt.Errorf("reward id required: test-event redeem <reward_id>")
		}
		return domain.RedeemEvent{
			User:  testUser,
			Input: domain.RedeemInput{RewardID: args[0], RewardName: "devtool " + time.Now().Format(time.Kitchen)},
		}, nil
	case "chat":
		text := strings.Join(args, " ")
		if text == "" {
			return nil, fmt.Errorf("message required: test-event chat <text>")
		}
		return domain.ChatMessageEvent{User: testUser, Input: domain.ChatInput{Text: text}}, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", kind)
	}
}
