package rpc

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/GNS-Foundation/gns-go/internal/app"
	"github.com/GNS-Foundation/gns-go/internal/crypto"
	"github.com/GNS-Foundation/gns-go/internal/identity"
	"github.com/GNS-Foundation/gns-go/internal/registry"
	"github.com/GNS-Foundation/gns-go/internal/storage"
	"github.com/GNS-Foundation/gns-go/internal/trajectory"
	"github.com/GNS-Foundation/gns-go/pkg/models"
)

func (s *Server) dispatchRPC(r *http.Request, method string, rawParams json.RawMessage) (any, *rpcError) {
	switch method {
	case "health_check":
		return map[string]string{"status": "ok"}, nil

	case "identity_create":
		var p struct {
			Passphrase string `json:"passphrase"`
		}
		if err := decodeParams(rawParams, &p); err != nil {
			return nil, rpcInvalidParams()
		}
		info, mnemonic, err := s.service.CreateIdentity(p.Passphrase)
		if err != nil {
			return nil, mapServiceError(err)
		}
		return map[string]any{"identity": info, "mnemonic": mnemonic}, nil

	case "identity_restore":
		var p struct {
			Secret     string `json:"secret"`
			Passphrase string `json:"passphrase"`
		}
		if err := decodeParams(rawParams, &p); err != nil || p.Secret == "" {
			return nil, rpcInvalidParams()
		}
		info, err := s.service.RestoreIdentity(p.Secret, p.Passphrase)
		if err != nil {
			return nil, mapServiceError(err)
		}
		return info, nil

	case "identity_load":
		var p struct {
			Passphrase string `json:"passphrase"`
		}
		if err := decodeParams(rawParams, &p); err != nil {
			return nil, rpcInvalidParams()
		}
		info, err := s.service.LoadIdentity(p.Passphrase)
		if err != nil {
			return nil, mapServiceError(err)
		}
		return info, nil

	case "identity_get":
		info, err := s.service.Identity()
		if err != nil {
			return nil, mapServiceError(err)
		}
		return info, nil

	case "identity_export":
		export, err := s.service.ExportIdentity()
		if err != nil {
			return nil, mapServiceError(err)
		}
		return export, nil

	case "message_seal":
		var p struct {
			RecipientEncryptionKey string `json:"recipientEncryptionKey"`
			RecipientSigningKey    string `json:"recipientSigningKey"`
			PayloadType            string `json:"payloadType"`
			Payload                []byte `json:"payload"`
		}
		if err := decodeParams(rawParams, &p); err != nil {
			return nil, rpcInvalidParams()
		}
		env, err := s.service.SealMessage(p.RecipientEncryptionKey, p.RecipientSigningKey, p.PayloadType, p.Payload)
		if err != nil {
			return nil, mapServiceError(err)
		}
		return env, nil

	case "message_open":
		var p struct {
			Envelope models.Envelope `json:"envelope"`
		}
		if err := decodeParams(rawParams, &p); err != nil {
			return nil, rpcInvalidParams()
		}
		opened, err := s.service.OpenMessage(p.Envelope)
		if err != nil {
			return nil, mapServiceError(err)
		}
		return opened, nil

	case "breadcrumb_drop":
		var p struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		}
		if err := decodeParams(rawParams, &p); err != nil {
			return nil, rpcInvalidParams()
		}
		count, epoch, err := s.service.DropBreadcrumb(p.Latitude, p.Longitude)
		if err != nil {
			return nil, mapServiceError(err)
		}
		result := map[string]any{"pendingCount": count}
		if epoch != nil {
			result["epoch"] = *epoch
		}
		return result, nil

	case "epoch_publish":
		ep, err := s.service.PublishEpoch()
		if err != nil {
			return nil, mapServiceError(err)
		}
		return ep, nil

	case "epoch_verify":
		var p struct {
			Epoch models.Epoch `json:"epoch"`
		}
		if err := decodeParams(rawParams, &p); err != nil {
			return nil, rpcInvalidParams()
		}
		return map[string]bool{"valid": s.service.VerifyEpoch(p.Epoch)}, nil

	case "epoch_list":
		return s.service.Epochs(), nil

	case "trust_score":
		score, err := s.service.TrustScore(time.Now())
		if err != nil {
			return nil, mapServiceError(err)
		}
		return score, nil

	case "handle_claim":
		var p struct {
			Handle     string `json:"handle"`
			Passphrase string `json:"passphrase"`
		}
		if err := decodeParams(rawParams, &p); err != nil || p.Handle == "" {
			return nil, rpcInvalidParams()
		}
		claim, err := s.service.ClaimHandle(r.Context(), p.Handle, p.Passphrase)
		if err != nil {
			return nil, mapServiceError(err)
		}
		return claim, nil

	case "handle_resolve":
		var p struct {
			Handle string `json:"handle"`
		}
		if err := decodeParams(rawParams, &p); err != nil || p.Handle == "" {
			return nil, rpcInvalidParams()
		}
		resolved, err := s.service.ResolveHandle(r.Context(), p.Handle)
		if err != nil {
			return nil, mapServiceError(err)
		}
		return resolved, nil
	}

	return nil, rpcMethodNotFound()
}

func decodeParams(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}

func mapServiceError(err error) *rpcError {
	code := -32050
	switch {
	case errors.Is(err, app.ErrNoIdentity):
		code = -32040
	case errors.Is(err, app.ErrIdentityExists):
		code = -32041
	case errors.Is(err, identity.ErrInvalidKeyFormat), errors.Is(err, identity.ErrInvalidMnemonic):
		code = -32042
	case errors.Is(err, trajectory.ErrInvalidCoordinate):
		code = -32043
	case errors.Is(err, trajectory.ErrIdentityMismatch):
		code = -32044
	case errors.Is(err, crypto.ErrEncryption):
		code = -32045
	case errors.Is(err, crypto.ErrDecryption):
		code = -32046
	case errors.Is(err, app.ErrNotEligible):
		code = -32047
	case errors.Is(err, identity.ErrHandleTooShort),
		errors.Is(err, identity.ErrHandleTooLong),
		errors.Is(err, identity.ErrHandleCharset),
		errors.Is(err, identity.ErrHandleReserved):
		code = -32048
	case errors.Is(err, registry.ErrHandleTaken), errors.Is(err, registry.ErrHandleNotFound):
		code = -32049
	case errors.Is(err, storage.ErrBufferFull), errors.Is(err, storage.ErrOutOfOrder):
		code = -32051
	}
	return &rpcError{Code: code, Message: err.Error()}
}
