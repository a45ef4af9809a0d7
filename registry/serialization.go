// Copyright 2025 Quarry Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package registry

import (
	"fmt"
	"sort"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"

	"github.com/quarrylabs/tessera/core"
)

// TenantMUS is the MUS serializer for tenant records.
//
// Layout: id, display name, metadata pair count, metadata pairs in sorted
// key order, then CreatedAt and UpdatedAt as Unix microseconds. Sorting
// the metadata keys keeps the encoding deterministic, so equal tenants
// always produce equal bytes.
var TenantMUS = tenantMUS{}

type tenantMUS struct{}

func (tenantMUS) Marshal(tenant core.Tenant, bs []byte) (n int) {
	n = ord.String.Marshal(tenant.ID, bs)
	n += ord.String.Marshal(tenant.DisplayName, bs[n:])
	n += varint.Int.Marshal(len(tenant.Metadata), bs[n:])
	for _, key := range sortedKeys(tenant.Metadata) {
		n += ord.String.Marshal(key, bs[n:])
		n += ord.String.Marshal(tenant.Metadata[key], bs[n:])
	}
	n += varint.Int64.Marshal(tenant.CreatedAt.UnixMicro(), bs[n:])
	n += varint.Int64.Marshal(tenant.UpdatedAt.UnixMicro(), bs[n:])
	return n
}

func (tenantMUS) Unmarshal(bs []byte) (tenant core.Tenant, n int, err error) {
	tenant.ID, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}

	var n1 int
	tenant.DisplayName, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}

	var count int
	count, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if count < 0 {
		err = fmt.Errorf("%w: negative metadata pair count", ErrTruncatedData)
		return
	}
	if count > 0 {
		tenant.Metadata = make(map[string]string, count)
	}
	for i := 0; i < count; i++ {
		var key, value string
		key, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
		value, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
		tenant.Metadata[key] = value
	}

	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	tenant.CreatedAt = time.UnixMicro(micros).UTC()

	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	tenant.UpdatedAt = time.UnixMicro(micros).UTC()
	return
}

func (tenantMUS) Size(tenant core.Tenant) (size int) {
	size = ord.String.Size(tenant.ID)
	size += ord.String.Size(tenant.DisplayName)
	size += varint.Int.Size(len(tenant.Metadata))
	for key, value := range tenant.Metadata {
		size += ord.String.Size(key)
		size += ord.String.Size(value)
	}
	size += varint.Int64.Size(tenant.CreatedAt.UnixMicro())
	size += varint.Int64.Size(tenant.UpdatedAt.UnixMicro())
	return size
}

func (tenantMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}

	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}

	var count int
	count, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if count < 0 {
		err = fmt.Errorf("%w: negative metadata pair count", ErrTruncatedData)
		return
	}
	for i := 0; i < 2*count; i++ {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}

	for i := 0; i < 2; i++ {
		n1, err = varint.Int64.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// MarshalTenant serializes a Tenant to bytes.
func MarshalTenant(tenant *core.Tenant) []byte {
	buf := make([]byte, TenantMUS.Size(*tenant))
	TenantMUS.Marshal(*tenant, buf)
	return buf
}

// UnmarshalTenant deserializes a Tenant from bytes.
func UnmarshalTenant(data []byte) (*core.Tenant, error) {
	tenant, _, err := TenantMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}
