package http

import "net/http"

// ══════════════════════════════════════════════════════════════════════════════
// FORUM TOPIC HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type createTopicRequest struct {
	SubjectID int64  `json:"subject_id"`
	UserID    int64  `json:"user_id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
}

func (s *Server) handleCreateTopic(w http.ResponseWriter, r *http.Request) {
	var req createTopicRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body")
		return
	}

	t, err := s.deps.Forum.CreateTopic(r.Context(), req.SubjectID, req.UserID, req.Title, req.Content)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleListTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := s.deps.Forum.ListTopics(r.Context(),
		queryInt64(r, "subject_id"),
		queryInt(r, "offset"),
		queryInt(r, "limit"),
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"topics": topics, "count": len(topics)})
}

func (s *Server) handleGetTopic(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Topic id must be a positive integer")
		return
	}

	t, err := s.deps.Forum.GetTopic(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

type updateTopicRequest struct {
	ActorID int64   `json:"actor_id"`
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func (s *Server) handleUpdateTopic(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Topic id must be a positive integer")
		return
	}

	var req updateTopicRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body")
		return
	}

	t, err := s.deps.Forum.UpdateTopic(r.Context(), id, req.ActorID, req.Title, req.Content)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTopic(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Topic id must be a positive integer")
		return
	}

	actorID := queryInt64(r, "actor_id")
	if actorID <= 0 {
		writeJSONError(w, http.StatusBadRequest, "validation_error", "actor_id is required")
		return
	}

	if err := s.deps.Forum.DeleteTopic(r.Context(), id, actorID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type resolveTopicRequest struct {
	ActorID int64 `json:"actor_id"`
}

func (s *Server) handleResolveTopic(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Topic id must be a positive integer")
		return
	}

	var req resolveTopicRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body")
		return
	}

	t, err := s.deps.Forum.ResolveTopic(r.Context(), id, req.ActorID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// ══════════════════════════════════════════════════════════════════════════════
// FORUM REPLY HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type createReplyRequest struct {
	UserID  int64  `json:"user_id"`
	Content string `json:"content"`
}

func (s *Server) handleCreateReply(w http.ResponseWriter, r *http.Request) {
	topicID, ok := pathID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Topic id must be a positive integer")
		return
	}

	var req createReplyRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body")
		return
	}

	reply, err := s.deps.Forum.CreateReply(r.Context(), topicID, req.UserID, req.Content)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, reply)
}

func (s *Server) handleListReplies(w http.ResponseWriter, r *http.Request) {
	topicID, ok := pathID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Topic id must be a positive integer")
		return
	}

	replies, err := s.deps.Forum.ListReplies(r.Context(), topicID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"replies": replies, "count": len(replies)})
}

type updateReplyRequest struct {
	ActorID int64  `json:"actor_id"`
	Content string `json:"content"`
}

func (s *Server) handleUpdateReply(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Reply id must be a positive integer")
		return
	}

	var req updateReplyRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body")
		return
	}

	reply, err := s.deps.Forum.UpdateReply(r.Context(), id, req.ActorID, req.Content)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func (s *Server) handleDeleteReply(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Reply id must be a positive integer")
		return
	}

	actorID := queryInt64(r, "actor_id")
	if actorID <= 0 {
		writeJSONError(w, http.StatusBadRequest, "validation_error", "actor_id is required")
		return
	}

	if err := s.deps.Forum.DeleteReply(r.Context(), id, actorID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type acceptReplyRequest struct {
	ActorID int64 `json:"actor_id"`
}

func (s *Server) handleAcceptReply(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Reply id must be a positive integer")
		return
	}

	var req acceptReplyRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body")
		return
	}

	reply, err := s.deps.Forum.AcceptReply(r.Context(), id, req.ActorID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func (s *Server) handleLikeReply(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Reply id must be a positive integer")
		return
	}

	reply, err := s.deps.Forum.LikeReply(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}
