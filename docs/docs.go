// Package docs registers the OpenAPI document served under /swagger. Keep it
// in step with the handler annotations in internal/api.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/backup/download": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns the caller's most recent database snapshot.",
                "produces": ["application/json"],
                "tags": ["backup"],
                "summary": "Download backup",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.DownloadBackupResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "404": {"description": "No backup found.", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/backup/upload": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Stores the caller's database snapshot, replacing any previous backup wholesale.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["backup"],
                "summary": "Upload backup",
                "parameters": [
                    {
                        "description": "Base64-encoded snapshot",
                        "name": "uploadRequest",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/api.UploadBackupRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.UploadBackupResponse"}},
                    "400": {"description": "Empty or invalid base64 snapshot", "schema": {"type": "object", "additionalProperties": {"type": "array", "items": {"type": "string"}}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Reports whether the server can reach its database.",
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/api.HealthResponse"}}
                }
            }
        },
        "/login": {
            "post": {
                "description": "Authenticates by email and password. Unknown email and wrong password produce the same response.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log in",
                "parameters": [
                    {
                        "description": "Login Credentials",
                        "name": "loginRequest",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/api.LoginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.AuthResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.NonFieldErrorsResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Resolves the optional bearer token. Anonymous callers get {\"user\": null} with 200.",
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Get current user info",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.MeResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/signup": {
            "post": {
                "description": "Registers a new account and returns an access/refresh token pair.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Create an account",
                "parameters": [
                    {
                        "description": "New account",
                        "name": "signupRequest",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/api.SignupRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/api.AuthResponse"}},
                    "400": {"description": "Field errors, including duplicate username or email", "schema": {"type": "object", "additionalProperties": {"type": "array", "items": {"type": "string"}}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/token/refresh": {
            "post": {
                "description": "Exchanges a valid refresh token for a new access token. The refresh token is not rotated and stays valid until it expires.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Refresh access token",
                "parameters": [
                    {
                        "description": "Refresh Token",
                        "name": "refreshRequest",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/api.RefreshRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.RefreshResponse"}},
                    "400": {"description": "Refresh token required.", "schema": {"$ref": "#/definitions/api.RefreshErrorResponse"}},
                    "401": {"description": "Invalid or expired refresh token.", "schema": {"$ref": "#/definitions/api.RefreshErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.AuthResponse": {
            "type": "object",
            "properties": {
                "access": {"type": "string"},
                "refresh": {"type": "string"},
                "success": {"type": "boolean", "example": true},
                "user": {"$ref": "#/definitions/models.AccountSummary"},
                "user_id": {"type": "integer", "example": 42},
                "username": {"type": "string", "example": "pitchfan"}
            }
        },
        "api.DownloadBackupResponse": {
            "type": "object",
            "properties": {
                "last_sync": {"type": "string"},
                "sqlite_blob": {"type": "string", "example": "U1FMaXRlIGZvcm1hdCAz"}
            }
        },
        "api.ErrorResponse": {
            "type": "object",
            "properties": {
                "detail": {"type": "string", "example": "No backup found."}
            }
        },
        "api.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "ok"}
            }
        },
        "api.LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string", "example": "pitchfan@example.com"},
                "password": {"type": "string", "example": "StrongPass123!"}
            }
        },
        "api.MeResponse": {
            "type": "object",
            "properties": {
                "access": {"type": "string"},
                "user": {"$ref": "#/definitions/models.AccountSummary"}
            }
        },
        "api.NonFieldErrorsResponse": {
            "type": "object",
            "properties": {
                "non_field_errors": {"type": "array", "items": {"type": "string"}}
            }
        },
        "api.RefreshErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "Invalid or expired refresh token."}
            }
        },
        "api.RefreshRequest": {
            "type": "object",
            "properties": {
                "refresh": {"type": "string"}
            }
        },
        "api.RefreshResponse": {
            "type": "object",
            "properties": {
                "access": {"type": "string"}
            }
        },
        "api.SignupRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string", "example": "pitchfan@example.com"},
                "password": {"type": "string", "example": "StrongPass123!"},
                "username": {"type": "string", "example": "pitchfan"}
            }
        },
        "api.UploadBackupRequest": {
            "type": "object",
            "properties": {
                "sqlite_blob": {"type": "string", "example": "U1FMaXRlIGZvcm1hdCAz"}
            }
        },
        "api.UploadBackupResponse": {
            "type": "object",
            "properties": {
                "last_sync": {"type": "string"},
                "message": {"type": "string", "example": "Backup saved successfully."},
                "success": {"type": "boolean", "example": true}
            }
        },
        "models.AccountSummary": {
            "type": "object",
            "properties": {
                "email": {"type": "string", "example": "pitchfan@example.com"},
                "id": {"type": "integer", "example": 42},
                "username": {"type": "string", "example": "pitchfan"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Multipitch Sync API",
	Description:      "Accounts, session tokens and database snapshot backups for the Multipitch client.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
