// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package plist

import (
	"encoding/hex"
	"fmt"

	"go.e43.eu/ddsi/internal/coder"
	"go.e43.eu/ddsi/internal/errors"
)

// EntityID identifies an entity within a participant.
// It is always big endian on the wire, whatever the encoding.
type EntityID uint32

const (
	ENTITYID_UNKNOWN                                EntityID = 0x0
	ENTITYID_PARTICIPANT                            EntityID = 0x1c1
	ENTITYID_SEDP_BUILTIN_TOPIC_WRITER              EntityID = 0x2c2
	ENTITYID_SEDP_BUILTIN_TOPIC_READER              EntityID = 0x2c7
	ENTITYID_SEDP_BUILTIN_PUBLICATIONS_WRITER       EntityID = 0x3c2
	ENTITYID_SEDP_BUILTIN_PUBLICATIONS_READER       EntityID = 0x3c7
	ENTITYID_SEDP_BUILTIN_SUBSCRIPTIONS_WRITER      EntityID = 0x4c2
	ENTITYID_SEDP_BUILTIN_SUBSCRIPTIONS_READER      EntityID = 0x4c7
	ENTITYID_SPDP_BUILTIN_PARTICIPANT_WRITER        EntityID = 0x100c2
	ENTITYID_SPDP_BUILTIN_PARTICIPANT_READER        EntityID = 0x100c7
	ENTITYID_P2P_BUILTIN_PARTICIPANT_MESSAGE_WRITER EntityID = 0x200c2
	ENTITYID_P2P_BUILTIN_PARTICIPANT_MESSAGE_READER EntityID = 0x200c7

	// Vendor entities used by Cyclone for its built-in "CM" topics
	ENTITYID_PRISMTECH_CM_PARTICIPANT_WRITER EntityID = 0x142
	ENTITYID_PRISMTECH_CM_PARTICIPANT_READER EntityID = 0x147
	ENTITYID_PRISMTECH_CM_PUBLISHER_WRITER   EntityID = 0x242
	ENTITYID_PRISMTECH_CM_PUBLISHER_READER   EntityID = 0x247
	ENTITYID_PRISMTECH_CM_SUBSCRIBER_WRITER  EntityID = 0x342
	ENTITYID_PRISMTECH_CM_SUBSCRIBER_READER  EntityID = 0x347

	ENTITYID_SOURCE_MASK    EntityID = 0xc0
	ENTITYID_SOURCE_USER    EntityID = 0x00
	ENTITYID_SOURCE_VENDOR  EntityID = 0x40
	ENTITYID_SOURCE_BUILTIN EntityID = 0xc0

	ENTITYID_KIND_MASK            EntityID = 0x3f
	ENTITYID_KIND_WRITER_WITH_KEY EntityID = 0x02
	ENTITYID_KIND_WRITER_NO_KEY   EntityID = 0x03
	ENTITYID_KIND_READER_NO_KEY   EntityID = 0x04
	ENTITYID_KIND_READER_WITH_KEY EntityID = 0x07
)

func (eid EntityID) Source() EntityID {
	return eid & ENTITYID_SOURCE_MASK
}

func (eid EntityID) Kind() EntityID {
	return eid & ENTITYID_KIND_MASK
}

func (eid EntityID) String() string {
	return fmt.Sprintf("%x", uint32(eid))
}

// GUIDPrefix identifies a participant
type GUIDPrefix [12]byte

// GUID is a globally unique entity identifier
type GUID struct {
	Prefix GUIDPrefix
	Entity EntityID
}

func (g GUID) String() string {
	return fmt.Sprintf("%s:%s", hex.EncodeToString(g.Prefix[:]), g.Entity)
}

func (g GUID) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

func decodeGUID(d *coder.Decoder) (GUID, error) {
	var g GUID
	b, err := d.Bytes(len(g.Prefix))
	if err != nil {
		return g, err
	}
	copy(g.Prefix[:], b)
	eid, err := d.BigUint32()
	g.Entity = EntityID(eid)
	return g, err
}

func encodeGUID(e *coder.Encoder, g GUID) {
	e.PutFixed(g.Prefix[:])
	e.PutBigUint32(uint32(g.Entity))
}

// validateParticipantGUID checks g is either all zero or names a
// participant. A TwinOaks peer sending a zero entity id is tolerated unless
// decoding strictly, and the id is corrected.
func validateParticipantGUID(g *GUID, dc *decodeContext) error {
	switch {
	case g.Prefix == GUIDPrefix{}:
		if g.Entity != 0 {
			return errors.ErrInvalidValue
		}
	case g.Entity == ENTITYID_PARTICIPANT:
	case g.Entity == 0 && dc.src.Vendor.IsTwinOaks() && !dc.policy.Strict:
		g.Entity = ENTITYID_PARTICIPANT
	default:
		return errors.ErrInvalidValue
	}
	return nil
}

func validateGroupGUID(g *GUID) error {
	if (g.Prefix == GUIDPrefix{}) {
		if g.Entity != 0 {
			return errors.ErrInvalidValue
		}
		return nil
	}
	if g.Entity == 0 {
		return errors.ErrInvalidValue
	}
	return nil
}

func isBuiltinEndpoint(eid EntityID) bool {
	switch eid {
	case ENTITYID_SEDP_BUILTIN_TOPIC_WRITER,
		ENTITYID_SEDP_BUILTIN_TOPIC_READER,
		ENTITYID_SEDP_BUILTIN_PUBLICATIONS_WRITER,
		ENTITYID_SEDP_BUILTIN_PUBLICATIONS_READER,
		ENTITYID_SEDP_BUILTIN_SUBSCRIPTIONS_WRITER,
		ENTITYID_SEDP_BUILTIN_SUBSCRIPTIONS_READER,
		ENTITYID_SPDP_BUILTIN_PARTICIPANT_WRITER,
		ENTITYID_SPDP_BUILTIN_PARTICIPANT_READER,
		ENTITYID_P2P_BUILTIN_PARTICIPANT_MESSAGE_WRITER,
		ENTITYID_P2P_BUILTIN_PARTICIPANT_MESSAGE_READER:
		return true
	default:
		return false
	}
}

// validateEndpointGUID checks that the entity id of g is a plausible
// endpoint. Unknown user and builtin ids are acceptable from newer protocol
// versions; vendor defined ids are never checked.
func validateEndpointGUID(g *GUID, dc *decodeContext) error {
	if (g.Prefix == GUIDPrefix{}) {
		if g.Entity != 0 {
			return errors.ErrInvalidValue
		}
		return nil
	}

	newer := dc.src.ProtocolVersion.IsNewer()
	switch g.Entity.Source() {
	case ENTITYID_SOURCE_USER:
		switch g.Entity.Kind() {
		case ENTITYID_KIND_WRITER_WITH_KEY, ENTITYID_KIND_WRITER_NO_KEY,
			ENTITYID_KIND_READER_NO_KEY, ENTITYID_KIND_READER_WITH_KEY:
			return nil
		}
		if newer {
			return nil
		}
		return errors.ErrInvalidValue

	case ENTITYID_SOURCE_BUILTIN:
		if isBuiltinEndpoint(g.Entity) || newer {
			return nil
		}
		return errors.ErrInvalidValue

	case ENTITYID_SOURCE_VENDOR:
		// Includes the ENTITYID_PRISMTECH_CM_* ids
		return nil

	default:
		return errors.ErrInvalidValue
	}
}
