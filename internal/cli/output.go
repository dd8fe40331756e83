package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case StartResult:
		o.printStartResult(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID              string    `json:"id"`
	Username        string    `json:"username,omitempty"`
	DisplayName     string    `json:"display_name"`
	AvatarURL       string    `json:"avatar_url,omitempty"`
	TokenBalance    int64     `json:"token_balance"`
	ClickPower      int       `json:"click_power"`
	Energy          int       `json:"energy"`
	MaxEnergy       int       `json:"max_energy"`
	ReferredBy      string    `json:"referred_by,omitempty"`
	TotalReferrals  int       `json:"total_referrals"`
	ReferralRewards int64     `json:"referral_rewards"`
	Friends         []string  `json:"friends"`
	CreatedAt       time.Time `json:"created_at"`
}

// Credit response type
type Credit struct {
	ReferrerID     string `json:"referrer_id"`
	InviteBonus    int64  `json:"invite_bonus"`
	BatchBonus     int64  `json:"batch_bonus"`
	Amount         int64  `json:"amount"`
	TotalReferrals int    `json:"total_referrals"`
}

// StartResult response type
type StartResult struct {
	Player     Player  `json:"player"`
	Created    bool    `json:"created"`
	Attributed bool    `json:"attributed"`
	Credit     *Credit `json:"credit,omitempty"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	_, _ = fmt.Fprintf(o.w, "Player: %s (%s)\n", p.DisplayName, p.ID)
	if p.Username != "" {
		_, _ = fmt.Fprintf(o.w, "Username: %s\n", p.Username)
	}
	_, _ = fmt.Fprintf(o.w, "Balance: %d EAGLE\n", p.TokenBalance)
	_, _ = fmt.Fprintf(o.w, "Energy: %d/%d (click power %d)\n", p.Energy, p.MaxEnergy, p.ClickPower)
	if p.ReferredBy != "" {
		_, _ = fmt.Fprintf(o.w, "Referred by: %s\n", p.ReferredBy)
	}
	_, _ = fmt.Fprintf(o.w, "Referrals: %d (rewards %d EAGLE)\n", p.TotalReferrals, p.ReferralRewards)
	if len(p.Friends) > 0 {
		_, _ = fmt.Fprintf(o.w, "Friends: %s\n", strings.Join(p.Friends, ", "))
	}
}

func (o *Output) printStartResult(r StartResult) {
	switch {
	case r.Created:
		_, _ = fmt.Fprintln(o.w, "Player registered")
	case r.Attributed:
		_, _ = fmt.Fprintln(o.w, "Referrer attached to existing player")
	default:
		_, _ = fmt.Fprintln(o.w, "Returning player")
	}
	if r.Credit != nil {
		_, _ = fmt.Fprintf(o.w, "Credited %s with %d EAGLE (%d referrals)\n",
			r.Credit.ReferrerID, r.Credit.Amount, r.Credit.TotalReferrals)
	}
	o.printPlayer(r.Player)
}

func (o *Output) printHealthResult(h HealthResult) {
	_, _ = fmt.Fprintf(o.w, "Status: %s\n", h.Status)
}
