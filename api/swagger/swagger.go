package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Cyborg Academy Progress API",
        "description": "Course progress, auto-completion and class quota resolution for academy students.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Students", "description": "Student lookup and next course suggestions"},
        {"name": "Progress", "description": "Per-course progress, task status and certificates"},
        {"name": "Courses", "description": "Course slug resolution"},
        {"name": "Admin", "description": "Background completion sweeps"},
        {"name": "Health", "description": "Probes and counters"}
    ],
    "paths": {
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string", "description": "Search by name or PRN"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{prn}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get student by PRN",
                "parameters": [
                    {"name": "prn", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Student not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{prn}/next-course": {
            "put": {
                "tags": ["Students"],
                "summary": "Set the suggested next course",
                "parameters": [
                    {"name": "prn", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateNextCourseRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Write failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{prn}/progress/{slug}": {
            "get": {
                "tags": ["Progress"],
                "summary": "Course progress of a student",
                "description": "Resolves the course slug, matches the enrollment and returns completed tasks, assigned classes and chart data. Completes the enrollment when the quota is reached.",
                "parameters": [
                    {"name": "prn", "in": "path", "required": true, "type": "string"},
                    {"name": "slug", "in": "path", "required": true, "type": "string", "description": "e.g. 3d-printing-level-1"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Student not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{prn}/progress/{slug}/report": {
            "get": {
                "tags": ["Progress"],
                "summary": "Download course progress as PDF",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "prn", "in": "path", "required": true, "type": "string"},
                    {"name": "slug", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF report", "schema": {"type": "file"}},
                    "404": {"description": "Student not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{prn}/tasks/{index}": {
            "patch": {
                "tags": ["Progress"],
                "summary": "Change a task status",
                "parameters": [
                    {"name": "prn", "in": "path", "required": true, "type": "string"},
                    {"name": "index", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateTaskStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Write failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{prn}/courses/{slug}/certificate": {
            "put": {
                "tags": ["Progress"],
                "summary": "Set the certificate flag of an enrollment",
                "parameters": [
                    {"name": "prn", "in": "path", "required": true, "type": "string"},
                    {"name": "slug", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateCertificateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not enrolled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/normalize": {
            "get": {
                "tags": ["Courses"],
                "summary": "Resolve a course slug",
                "parameters": [
                    {"name": "slug", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Missing slug", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/reconcile": {
            "post": {
                "tags": ["Admin"],
                "summary": "Queue a completion sweep",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReconcileRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/metrics/summary": {
            "get": {
                "tags": ["Health"],
                "summary": "Aggregated service counters",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        }
    },
    "definitions": {
        "UpdateTaskStatusRequest": {
            "type": "object",
            "required": ["status", "slug"],
            "properties": {
                "status": {"type": "string", "enum": ["complete", "ongoing"]},
                "slug": {"type": "string"}
            }
        },
        "UpdateCertificateRequest": {
            "type": "object",
            "required": ["certificate"],
            "properties": {
                "certificate": {"type": "boolean"}
            }
        },
        "UpdateNextCourseRequest": {
            "type": "object",
            "properties": {
                "nextCourse": {"type": "string"}
            }
        },
        "ReconcileRequest": {
            "type": "object",
            "required": ["prns"],
            "properties": {
                "prns": {"type": "array", "items": {"type": "string"}}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
