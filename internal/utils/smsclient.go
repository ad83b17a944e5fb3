package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// SMSClient sends SMS via a Twilio-compatible REST API, or logs the message
// in dry-run mode (no credentials required).
type SMSClient struct {
	AccountSID string
	AuthToken  string
	Sender     string
	DryRun     bool
}

type SendSMSResponse struct {
	SID          string `json:"sid"`
	Status       string `json:"status"`
	ErrorCode    *int   `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

func NewSMSClient(accountSID, authToken, sender string, dryRun bool) *SMSClient {
	return &SMSClient{AccountSID: accountSID, AuthToken: authToken, Sender: sender, DryRun: dryRun}
}

func (c *SMSClient) SendSMS(to, text string) (*SendSMSResponse, error) {
	if c.DryRun || c.AccountSID == "" {
		fmt.Printf("[sms][dry-run] to=%s sender=%q text=%q\n", to, c.Sender, text)
		return &SendSMSResponse{Status: "queued"}, nil
	}

	apiURL := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", c.AccountSID)

	form := url.Values{
		"To":   {to},
		"From": {c.Sender},
		"Body": {text},
	}

	req, err := http.NewRequest("POST", apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.AccountSID, c.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send SMS request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	var result SendSMSResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("twilio returned status=%d error=%s", resp.StatusCode, result.ErrorMessage)
	}
	return &result, nil
}
