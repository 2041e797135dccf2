// Package docs registers the Nexus OpenAPI document with swag so http-swagger can serve it.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/mock/agents": {
            "get": {
                "produces": ["application/json"],
                "tags": ["agents"],
                "summary": "List agents",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.AgentsResponse"}}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["agents"],
                "summary": "Register an agent",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/api.CreateAgentRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/api.Agent"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/api/mock/agents/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["agents"],
                "summary": "Get an agent",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.Agent"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/api/mock/agents/{id}/metrics": {
            "get": {
                "produces": ["application/json"],
                "tags": ["metrics"],
                "summary": "Hourly metrics, health and errors for an agent",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.AgentMetricsResponse"}}}
            }
        },
        "/api/mock/log": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["ingest"],
                "summary": "Ingest a log body",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/api.LogRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/api.IngestResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/api/mock/health": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["ingest"],
                "summary": "Ingest a health report",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/api.HealthRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/api.IngestResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/api/mock/logs": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ingest"],
                "summary": "List ingested logs, newest first",
                "parameters": [
                    {"type": "string", "name": "type", "in": "query"},
                    {"type": "string", "name": "agent_id", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.LogsResponse"}}}
            }
        },
        "/api/mock/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["stats"],
                "summary": "Counts of ingested data",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.StatsResponse"}}}
            }
        },
        "/api/frontend/organizations": {
            "get": {
                "produces": ["application/json"],
                "tags": ["organizations"],
                "summary": "List organizations",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.OrganizationsResponse"}}}
            }
        }
    },
    "definitions": {
        "api.Agent": {"type": "object", "properties": {
            "id": {"type": "string"}, "name": {"type": "string"}, "description": {"type": "string"},
            "type": {"type": "string"}, "provider": {"type": "string"}, "model": {"type": "string"},
            "status": {"type": "string"}, "organization_id": {"type": "string"},
            "created_at": {"type": "string"}, "updated_at": {"type": "string"}}},
        "api.AgentsResponse": {"type": "object", "properties": {
            "agents": {"type": "array", "items": {"$ref": "#/definitions/api.Agent"}}, "total": {"type": "integer"}}},
        "api.CreateAgentRequest": {"type": "object", "properties": {
            "id": {"type": "string"}, "name": {"type": "string"}, "description": {"type": "string"},
            "type": {"type": "string"}, "provider": {"type": "string"}, "model": {"type": "string"},
            "status": {"type": "string"}, "organization_id": {"type": "string"}}},
        "api.AgentMetricsResponse": {"type": "object", "properties": {
            "agent_id": {"type": "string"}, "period": {"type": "string"},
            "metrics": {"type": "array", "items": {"type": "object"}},
            "health": {"type": "array", "items": {"type": "object"}},
            "errors": {"type": "array", "items": {"type": "object"}}}},
        "api.LogRequest": {"type": "object", "properties": {"type": {"type": "string"}, "data": {"type": "object"}}},
        "api.HealthRequest": {"type": "object", "properties": {
            "agent_id": {"type": "string"}, "status": {"type": "string"}, "uptime": {"type": "number"},
            "response_time": {"type": "number"}, "error_rate": {"type": "number"},
            "cpu_usage": {"type": "number"}, "memory_usage": {"type": "number"}}},
        "api.IngestResponse": {"type": "object", "properties": {
            "success": {"type": "boolean"}, "id": {"type": "string"}, "message": {"type": "string"}}},
        "api.LogsResponse": {"type": "object", "properties": {
            "logs": {"type": "array", "items": {"type": "object"}}, "total": {"type": "integer"}}},
        "api.StatsResponse": {"type": "object", "properties": {
            "logs": {"type": "object", "additionalProperties": {"type": "integer"}},
            "total_logs": {"type": "integer"}, "health_reports": {"type": "integer"},
            "agents": {"type": "integer"}, "organizations": {"type": "integer"}, "uptime_seconds": {"type": "number"}}},
        "api.OrganizationsResponse": {"type": "object", "properties": {
            "organizations": {"type": "array", "items": {"type": "object"}}}},
        "api.ErrorResponse": {"type": "object", "properties": {
            "error": {"type": "object", "properties": {"code": {"type": "string"}, "message": {"type": "string"}}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Nexus API",
	Description:      "Monitoring backend for third-party AI agents.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
