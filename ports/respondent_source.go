package ports

import (
	"context"

	"gomatch/domain/response"
)

// RespondentSource materializes respondents with decrypted structured
// responses. Decryption and storage concerns live behind this port.
type RespondentSource interface {
	LoadRespondents(ctx context.Context) ([]response.Respondent, error)
}
