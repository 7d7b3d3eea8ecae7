// Package docs registers the OpenAPI document served at /openapi.json and /docs.
// Keep it in sync with the godoc annotations in internal/handler (swag init -g cmd/server/main.go -o internal/docs).
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
        "/clients": {
            "get": {
                "produces": ["application/json"],
                "tags": ["clients"],
                "summary": "Retrieve all clients",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {"$ref": "#/definitions/model.Client"}
                        }
                    }
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["clients"],
                "summary": "Create a new client",
                "parameters": [
                    {
                        "description": "Client payload",
                        "name": "client",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/model.CreateClientInput"}
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {"$ref": "#/definitions/model.Client"}
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {"$ref": "#/definitions/response.ErrorPayload"}
                    }
                }
            }
        },
        "/clients/paginated": {
            "get": {
                "produces": ["application/json"],
                "tags": ["clients"],
                "summary": "Retrieve clients paginated, filtered by name and sorted",
                "parameters": [
                    {"type": "integer", "default": 1, "description": "1-based page", "name": "page", "in": "query"},
                    {"type": "integer", "default": 10, "description": "Page size", "name": "limit", "in": "query"},
                    {"type": "string", "default": "createdAt", "description": "Sort field", "name": "sort", "in": "query"},
                    {"type": "string", "default": "DESC", "description": "ASC or DESC", "name": "order", "in": "query"},
                    {"type": "string", "description": "Case-insensitive name substring", "name": "filterName", "in": "query"}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/service.PageResult"}
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {"$ref": "#/definitions/response.ErrorPayload"}
                    }
                }
            }
        },
        "/clients/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["clients"],
                "summary": "Retrieve a client by ID",
                "parameters": [
                    {"type": "integer", "description": "Client ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/model.Client"}
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {"$ref": "#/definitions/response.ErrorPayload"}
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {"$ref": "#/definitions/response.ErrorPayload"}
                    }
                }
            },
            "delete": {
                "tags": ["clients"],
                "summary": "Delete a client by ID",
                "parameters": [
                    {"type": "integer", "description": "Client ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {
                        "description": "Not Found",
                        "schema": {"$ref": "#/definitions/response.ErrorPayload"}
                    }
                }
            },
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["clients"],
                "summary": "Update a client by ID",
                "parameters": [
                    {"type": "integer", "description": "Client ID", "name": "id", "in": "path", "required": true},
                    {
                        "description": "Fields to change",
                        "name": "client",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/model.UpdateClientInput"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/model.Client"}
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {"$ref": "#/definitions/response.ErrorPayload"}
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {"$ref": "#/definitions/response.ErrorPayload"}
                    }
                }
            }
        }
    },
    "definitions": {
        "model.Client": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "salary": {"type": "number"},
                "companyValue": {"type": "number"},
                "createdAt": {"type": "string", "format": "date-time"},
                "updatedAt": {"type": "string", "format": "date-time"}
            }
        },
        "model.CreateClientInput": {
            "type": "object",
            "required": ["name", "salary", "companyValue"],
            "properties": {
                "name": {"type": "string", "maxLength": 255, "minLength": 1},
                "salary": {"type": "number", "maximum": 99999999.99, "minimum": 0},
                "companyValue": {"type": "number", "maximum": 9999999999999.99, "minimum": 0}
            }
        },
        "model.UpdateClientInput": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "maxLength": 255, "minLength": 1},
                "salary": {"type": "number", "maximum": 99999999.99, "minimum": 0},
                "companyValue": {"type": "number", "maximum": 9999999999999.99, "minimum": 0}
            }
        },
        "response.ErrorPayload": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string"},
                "fieldErrors": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/service.FieldError"}
                }
            }
        },
        "service.FieldError": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "service.PageResult": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/model.Client"}
                },
                "total": {"type": "integer"}
            }
        }
    },
    "tags": [{"name": "clients"}]
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Clients API",
	Description:      "API for managing clients in the system",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
