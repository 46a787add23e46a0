// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package status

import (
	"errors"
	"sort"
)

// ErrUnknown is the sentinel matched by every LookupError. Use it with
// errors.Is to detect an unknown symbolic status name.
var ErrUnknown = errors.New("rapidhttp/status: unknown status name")

// A LookupError is returned by Lookup when the symbolic name is not in
// the registry.
type LookupError struct {
	// Name is the symbolic name that was looked up.
	Name string
}

func (err *LookupError) Error() string {
	return "rapidhttp/status: no status code: " + err.Name
}

// Is reports whether target is ErrUnknown.
func (err *LookupError) Is(target error) bool {
	return target == ErrUnknown
}

// byName maps every symbolic name, including aliases, to its code.
var byName = map[string]int{
	// Informational.
	"continue":            100,
	"switching_protocols": 101,
	"processing":          102,
	"checkpoint":          103,
	"uri_too_long":        122,

	// Success.
	"ok":                            200,
	"created":                       201,
	"accepted":                      202,
	"non_authoritative_info":        203,
	"non_authoritative_information": 203,
	"no_content":                    204,
	"reset_content":                 205,
	"reset":                         205,
	"partial_content":               206,
	"partial":                       206,
	"multi_status":                  207,
	"already_reported":              208,
	"im_used":                       226,

	// Redirection.
	"multiple_choices":   300,
	"moved_permanently":  301,
	"moved":              301,
	"found":              302,
	"see_other":          303,
	"other":              303,
	"not_modified":       304,
	"use_proxy":          305,
	"switch_proxy":       306,
	"temporary_redirect": 307,
	"temporary_moved":    307,
	"temporary":          307,
	"permanent_redirect": 308,
	"resume_incomplete":  308,
	"resume":             308,

	// Client error.
	"bad_request":                          400,
	"bad":                                  400,
	"unauthorized":                         401,
	"payment_required":                     402,
	"payment":                              402,
	"forbidden":                            403,
	"not_found":                            404,
	"method_not_allowed":                   405,
	"not_allowed":                          405,
	"not_acceptable":                       406,
	"proxy_authentication_required":        407,
	"proxy_auth":                           407,
	"proxy_authentication":                 407,
	"request_timeout":                      408,
	"timeout":                              408,
	"conflict":                             409,
	"gone":                                 410,
	"length_required":                      411,
	"precondition_failed":                  412,
	"precondition":                         412,
	"request_entity_too_large":             413,
	"request_uri_too_large":                414,
	"unsupported_media_type":               415,
	"unsupported_media":                    415,
	"media_type":                           415,
	"requested_range_not_satisfiable":      416,
	"requested_range":                      416,
	"range_not_satisfiable":                416,
	"expectation_failed":                   417,
	"im_a_teapot":                          418,
	"teapot":                               418,
	"misdirected_request":                  421,
	"unprocessable_entity":                 422,
	"unprocessable":                        422,
	"locked":                               423,
	"failed_dependency":                    424,
	"dependency":                           424,
	"unordered_collection":                 425,
	"unordered":                            425,
	"upgrade_required":                     426,
	"upgrade":                              426,
	"precondition_required":                428,
	"too_many_requests":                    429,
	"too_many":                             429,
	"header_fields_too_large":              431,
	"fields_too_large":                     431,
	"no_response":                          444,
	"none":                                 444,
	"retry_with":                           449,
	"retry":                                449,
	"blocked_by_windows_parental_controls": 450,
	"parental_controls":                    450,
	"unavailable_for_legal_reasons":        451,
	"legal_reasons":                        451,
	"client_closed_request":                499,

	// Server error.
	"internal_server_error":           500,
	"server_error":                    500,
	"not_implemented":                 501,
	"bad_gateway":                     502,
	"service_unavailable":             503,
	"unavailable":                     503,
	"gateway_timeout":                 504,
	"http_version_not_supported":      505,
	"http_version":                    505,
	"variant_also_negotiates":         506,
	"insufficient_storage":            507,
	"bandwidth_limit_exceeded":        509,
	"bandwidth":                       509,
	"not_extended":                    510,
	"network_authentication_required": 511,
	"network_auth":                    511,
	"network_authentication":          511,
}

// byCode is the reverse direction: every code reachable from byName maps
// to itself, and to the sorted list of its names.
var byCode = func() map[int][]string {
	m := make(map[int][]string, len(byName))
	for name, code := range byName {
		m[code] = append(m[code], name)
	}
	for _, names := range m {
		sort.Strings(names)
	}
	return m
}()

// Lookup returns the status code registered under the symbolic name.
//
// Names are the lower-case, underscore-separated identifiers familiar
// from the requests library, for example "not_found" or its alias
// "teapot". If the name is not registered, Lookup returns a
// *LookupError, which matches ErrUnknown under errors.Is.
func Lookup(name string) (int, error) {
	code, ok := byName[name]
	if !ok {
		return 0, &LookupError{Name: name}
	}
	return code, nil
}

// MustLookup is like Lookup but panics if the name is unknown. It
// simplifies safe initialization of package-level variables.
func MustLookup(name string) int {
	code, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return code
}

// Code is the reverse identity lookup. It returns code, true when code
// is registered under at least one symbolic name, and 0, false
// otherwise.
func Code(code int) (int, bool) {
	if _, ok := byCode[code]; ok {
		return code, true
	}
	return 0, false
}

// Names returns every symbolic name registered for code, sorted. The
// result is nil if code is not registered.
func Names(code int) []string {
	names := byCode[code]
	if names == nil {
		return nil
	}
	out := make([]string, len(names))
	copy(out, names)
	return out
}
