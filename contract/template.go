// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

import (
	"os"
	"path/filepath"
	"strings"
)

// Variant selects the deliberate defect appended to a generated source
// artifact, for publish-failure injection.
type Variant string

const (
	VariantNone Variant = ""

	// VariantSyntaxError appends a bare token the node's loader rejects.
	VariantSyntaxError Variant = "syntax_err"

	// VariantBigFile pads the source past the node's size limit.
	VariantBigFile Variant = "bigfile"

	// VariantTrimCode appends trailing comment noise the publisher should
	// strip without changing the artifact's identity.
	VariantTrimCode Variant = "trim_code"

	// VariantLongStringReturn adds a function whose return value exceeds the
	// node's result size limit.
	VariantLongStringReturn Variant = "long_string_return"
)

// SourceFileName is the artifact name GenerateSource writes inside dir.
const SourceFileName = "contract.lua"

const sourceTemplate = `cell = 100000000

function say( ... )
    if _G.print then
        print(...)
    end
end

function tailLoopTest(start)
    if start < 0 then
        return 0
    else
        return tailLoopTest(start - 1)
    end
end

function payable()
    -- just for recharge
    return "just for recharge"
end

function get(key)
    return PersistentData[key]
end

function updateContract(key, val)
    PersistentData[key] = val
end

function cycleSelf()
    PersistentData["this"] = {1, 2, 3, asd = {name = 'weigun', age = 18, infos = {{1}, {2}, k = {n = true}}}}
end

function setUpHook()
    setmetatable(_G, {__index = PersistentData})
end

function setNil( ... )
    PersistentData = nil
end
`

// GenerateSource writes the contract source artifact into dir and returns its
// path. The artifact is opaque to the harness; only the node interprets it.
func GenerateSource(dir string, variant Variant) (string, error) {
	code := sourceTemplate
	switch variant {
	case VariantSyntaxError:
		code += "syntax_err"
	case VariantBigFile:
		code += "local a = [==[\n" + strings.Repeat("a", 2147483647/30) + "\n]==]"
	case VariantTrimCode:
		code += strings.Repeat("--1", 10)
	case VariantLongStringReturn:
		code += "function longReturnTest() return \"" +
			strings.Repeat("long long long ago ", 2500) + "\" end\n"
	}

	path := filepath.Join(dir, SourceFileName)
	if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
