// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package http

var (
	// Unauthorized 401
	Unauthorized         = failed(4401, "Unauthorized")
	AuthenticationFailed = failed(4402, "Authentication failed")
	InvalidToken         = failed(4405, "Invalid token")
	TokenBeEmpty         = failed(4406, "Token cannot be empty")
	TokenExpired         = failed(4407, "Token is expired")
	TokenFormatIncorrect = failed(4408, "Token format is incorrect")

	// BadRequest 400
	BadRequest       = failed(4000, "Bad request")
	ValidationFailed = failed(4001, "Validation failed")
	NotFound         = failed(4004, "Not found")
	MethodNotAllowed = failed(4005, "Method not allowed")

	// Forbidden 403
	Forbidden        = failed(4030, "Forbidden")
	PermissionDenied = failed(4031, "Permission denied")

	// Conflict 409
	Conflict     = failed(4090, "Conflict")
	InvalidState = failed(4091, "Invalid state")

	// Gone 410
	Gone = failed(4100, "Gone")

	InternalError = failed(5000, "Internal error, please contact the administrator")
)

var (
	Success = success(200, "Request Success")
)

// failed 构造函数
func failed(code int, msg string) *Response {
	return &Response{
		Code: code,
		Msg:  msg,
	}
}

// success 构造函数
func success(code int, msg string) *Response {
	return &Response{
		Code: code,
		Msg:  msg,
	}
}
