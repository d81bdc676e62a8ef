package apperror

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassifyBroadcast(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{
			name: "user_rejected",
			err:  errors.New("user rejected the request"),
			want: CodeBroadcastCancelled,
		},
		{
			name: "metamask_denied",
			err:  errors.New("MetaMask Tx Signature: User denied transaction signature"),
			want: CodeBroadcastCancelled,
		},
		{
			name: "context_canceled",
			err:  context.Canceled,
			want: CodeBroadcastCancelled,
		},
		{
			name: "insufficient_funds",
			err:  errors.New("insufficient funds for gas * price + value"),
			want: CodeInsufficientBalance,
		},
		{
			name: "transfer_exceeds_balance",
			err:  errors.New("transfer amount exceeds balance"),
			want: CodeInsufficientBalance,
		},
		{
			name: "connection_refused",
			err:  fmt.Errorf("dial tcp: %w", errors.New("connection refused")),
			want: CodeBroadcastNetworkError,
		},
		{
			name: "gas_underpriced",
			err:  errors.New("replacement transaction underpriced: gas too low"),
			want: CodeBroadcastNetworkError,
		},
		{
			name: "deadline_exceeded",
			err:  context.DeadlineExceeded,
			want: CodeBroadcastNetworkError,
		},
		{
			name: "unclassified",
			err:  errors.New("execution reverted: 0xdeadbeef"),
			want: CodeTransactionFailed,
		},
		{
			name: "already_classified_passthrough",
			err:  New(CodeInsufficientBalance),
			want: CodeInsufficientBalance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyBroadcast(tt.err)
			if got.Code != tt.want {
				t.Errorf("ClassifyBroadcast(%v) code = %s, want %s", tt.err, got.Code, tt.want)
			}
			// the cause must stay attached for logging
			if tt.name != "already_classified_passthrough" && !errors.Is(got, tt.err) && got.Unwrap() == nil {
				t.Errorf("classified error lost its cause")
			}
		})
	}
}

func TestUserMessage_NeverLeaksRawDetail(t *testing.T) {
	raw := errors.New("rpc error: code = Unavailable desc = transport is closing")
	msg := UserMessage(ClassifyBroadcast(raw))
	if msg == raw.Error() {
		t.Fatalf("user message leaked raw provider detail")
	}
	if msg == "" {
		t.Fatalf("user message is empty")
	}
}

func TestUserMessage_Nil(t *testing.T) {
	if got := UserMessage(nil); got != "" {
		t.Fatalf("UserMessage(nil) = %q, want empty", got)
	}
}
