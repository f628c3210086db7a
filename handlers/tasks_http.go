package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"planbackend/middleware"
	"planbackend/models"
	"planbackend/models/api"
	"planbackend/services"
)

type TasksHTTPHandler struct {
	tasksService services.TasksService
}

func NewTasksHTTPHandler(tasksService services.TasksService) *TasksHTTPHandler {
	return &TasksHTTPHandler{tasksService: tasksService}
}

func (h *TasksHTTPHandler) HandleListTasks(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 List tasks request received from %s", r.RemoteAddr)
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	tasks, err := h.tasksService.ListTasksByPlannedDate(r.Context(), userID, r.URL.Query().Get("date"))
	if err != nil {
		log.Printf("❌ Failed to list tasks: %v", err)
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{"tasks": api.DomainTasksToAPITasks(tasks)})
}

func (h *TasksHTTPHandler) HandleUpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["id"]
	log.Printf("🔄 Update task status request received for task %s", taskID)
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req UpdateTaskStatusRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	task, err := h.tasksService.UpdateTaskStatus(r.Context(), userID, taskID, models.TaskStatus(req.Status))
	if err != nil {
		log.Printf("❌ Failed to update status of task %s: %v", taskID, err)
		writeErrorResponse(w, err)
		return
	}

	log.Printf("✅ Task %s moved to %s", taskID, task.Status)
	writeJSONResponse(w, http.StatusOK, map[string]any{"task": api.DomainTaskToAPITask(task)})
}

func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *TasksHTTPHandler) SetupEndpoints(router *mux.Router, authMiddleware *middleware.ClerkAuthMiddleware) {
	log.Printf("🚀 Registering tasks API endpoints")

	router.HandleFunc("/health", HandleHealth).Methods("GET")
	log.Printf("✅ GET /health endpoint registered")

	router.HandleFunc("/tasks", authMiddleware.WithAuth(h.HandleListTasks)).Methods("GET")
	log.Printf("✅ GET /tasks endpoint registered")

	router.HandleFunc("/tasks/{id}/status", authMiddleware.WithAuth(h.HandleUpdateTaskStatus)).Methods("PATCH")
	log.Printf("✅ PATCH /tasks/{id}/status endpoint registered")

	log.Printf("✅ All tasks API endpoints registered successfully")
}
